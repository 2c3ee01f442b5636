package exec

import (
	"io"
	"os"
	"strconv"

	"github.com/spk121/posh/internal/ast"
	"github.com/spk121/posh/internal/expand"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/shellerr"
)

// redirectUndo records what applyRedirects did to one fd so
// undoRedirects can put fr.Files back the way it found it. opened is
// non-nil for a redirect that opened a real file or heredoc temp file,
// which must be closed once its scope ends.
type redirectUndo struct {
	fd      int
	hadPrev bool
	prev    *os.File
	opened  *os.File
}

// applyRedirects realizes spec.md §4.3's redirection engine: each
// ast.Redirect updates fr.Files (and fr.FDs' bookkeeping stack) in
// order, left to right, so "2>&1 1>file" and "1>file 2>&1" behave
// differently exactly as POSIX requires. On the first failure it
// returns the redirects applied so far, so the caller can still undo
// them.
func (ex *Executor) applyRedirects(fr *frame.Frame, redirects []ast.Redirect, env expand.Environment) ([]redirectUndo, error) {
	var undo []redirectUndo
	for _, r := range redirects {
		fd := r.Fd
		if !r.HasFd {
			fd = defaultFd(r.Op)
		}
		prev, hadPrev := fr.Files.Get(fd)

		switch r.Op {
		case ast.RedirDupIn, ast.RedirDupOut:
			target, terr := expandOneNoSplit(r.Target, env)
			if terr != nil {
				return undo, shellerr.Wrap(shellerr.CategoryRedirection, "dup", terr)
			}
			if target == "-" {
				fr.Files.Close(fd)
				fr.FDs.Record(frame.FDEntry{Fd: fd})
				undo = append(undo, redirectUndo{fd: fd, prev: prev, hadPrev: hadPrev})
				continue
			}
			srcFd, perr := strconv.Atoi(target)
			if perr != nil {
				return undo, shellerr.Wrap(shellerr.CategoryRedirection, target, perr)
			}
			src, ok := fr.Files.Get(srcFd)
			if !ok {
				return undo, shellerr.New(shellerr.CategoryRedirection, target+": bad file descriptor")
			}
			fr.Files.Set(fd, src)
			fr.FDs.Record(frame.FDEntry{Fd: fd})
			undo = append(undo, redirectUndo{fd: fd, prev: prev, hadPrev: hadPrev})

		case ast.RedirHeredoc, ast.RedirHeredocTab:
			body, terr := expandOneNoSplit(r.Target, env)
			if terr != nil {
				return undo, shellerr.Wrap(shellerr.CategoryRedirection, "heredoc", terr)
			}
			f, oerr := heredocTempFile(body)
			if oerr != nil {
				return undo, shellerr.Wrap(shellerr.CategoryRedirection, "heredoc", oerr)
			}
			fr.Files.Set(fd, f)
			fr.FDs.Record(frame.FDEntry{Fd: fd})
			undo = append(undo, redirectUndo{fd: fd, prev: prev, hadPrev: hadPrev, opened: f})

		default:
			target, terr := expandOneNoSplit(r.Target, env)
			if terr != nil {
				return undo, shellerr.Wrap(shellerr.CategoryRedirection, "redirect", terr)
			}
			if target == "" {
				return undo, shellerr.New(shellerr.CategoryRedirection, "ambiguous redirect")
			}
			flags := redirFlags(r.Op, fr.Options.Get(frame.OptNoclobber))
			f, oerr := os.OpenFile(target, flags, 0666)
			if oerr != nil {
				return undo, shellerr.Wrap(shellerr.CategoryRedirection, target, oerr)
			}
			fr.Files.Set(fd, f)
			fr.FDs.Record(frame.FDEntry{Fd: fd})
			undo = append(undo, redirectUndo{fd: fd, prev: prev, hadPrev: hadPrev, opened: f})
		}
	}
	return undo, nil
}

// undoRedirects restores fr.Files to the state it had before the
// matching applyRedirects call, in reverse order, closing any file that
// call itself opened.
func (ex *Executor) undoRedirects(fr *frame.Frame, undo []redirectUndo) {
	for i := len(undo) - 1; i >= 0; i-- {
		u := undo[i]
		if u.opened != nil {
			u.opened.Close()
		}
		if u.hadPrev {
			fr.Files.Set(u.fd, u.prev)
		} else {
			fr.Files.Close(u.fd)
		}
	}
}

func defaultFd(op ast.RedirOp) int {
	switch op {
	case ast.RedirRead, ast.RedirDupIn, ast.RedirHeredoc, ast.RedirHeredocTab, ast.RedirReadWrite:
		return 0
	default:
		return 1
	}
}

func redirFlags(op ast.RedirOp, noclobber bool) int {
	switch op {
	case ast.RedirRead:
		return os.O_RDONLY
	case ast.RedirWrite:
		if noclobber {
			return os.O_WRONLY | os.O_CREATE | os.O_EXCL
		}
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ast.RedirClobber:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ast.RedirAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case ast.RedirReadWrite:
		return os.O_RDWR | os.O_CREATE
	default:
		return os.O_RDONLY
	}
}

// heredocTempFile materializes a heredoc body as an unlinked temp file
// so it can be handed to the command as a real, seekable fd, the same
// trick real shells use rather than holding the whole body in a pipe
// buffer.
func heredocTempFile(body string) (*os.File, error) {
	f, err := os.CreateTemp("", "posh-heredoc-*")
	if err != nil {
		return nil, err
	}
	os.Remove(f.Name())
	if _, err := f.WriteString(body); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func expandOneNoSplit(w ast.Word, env expand.Environment) (string, error) {
	return expandAssignValue(w, env)
}
