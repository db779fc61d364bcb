package sema

import "loopkern/internal/source"

type scopeStack struct {
	frames []map[source.StringID]SymbolID
}

func (s *scopeStack) push() {
	s.frames = append(s.frames, make(map[source.StringID]SymbolID))
}

func (s *scopeStack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scopeStack) bind(name source.StringID, id SymbolID) {
	s.frames[len(s.frames)-1][name] = id
}

// lookup searches innermost to outermost.
func (s *scopeStack) lookup(name source.StringID) (SymbolID, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if id, ok := s.frames[i][name]; ok {
			return id, true
		}
	}
	return NoSymbolID, false
}

func (s *scopeStack) lookupLocal(name source.StringID) (SymbolID, bool) {
	id, ok := s.frames[len(s.frames)-1][name]
	return id, ok
}
