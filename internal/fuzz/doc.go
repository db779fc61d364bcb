// Package fuzztests houses Go fuzz harnesses that exercise the loopkern
// pipeline (source -> lexer -> parser -> sema -> analysis -> kernels). Its goal
// is to smoke test robustness and guard against panics, hangs or invalid
// kernels on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через весь конвейер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
