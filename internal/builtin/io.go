package builtin

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spk121/posh/internal/exec"
	"github.com/spk121/posh/internal/frame"
	"github.com/spk121/posh/internal/shellerr"
)

func registerIO(r *exec.Registry) {
	r.Register("cd", Cd)
	r.Register("pwd", Pwd)
	r.Register("read", Read)
}

// Cd changes fr.CWD, the directory every subsequently spawned external
// command and every relative-path redirection resolves against. "cd -"
// switches to $OLDPWD and prints the new directory, matching the
// historical behavior POSIX carries forward. A bare "cd" goes to $HOME.
func Cd(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	target := ""
	if len(argv) > 1 {
		target = argv[1]
	}

	store := exec.VarTarget(fr)
	printTarget := false
	switch target {
	case "":
		if v, ok := store.Get("HOME"); ok {
			target = v.Value
		} else {
			fmt.Fprintln(ex.Stderr(fr), "cd: HOME not set")
			return 1
		}
	case "-":
		if v, ok := store.Get("OLDPWD"); ok {
			target = v.Value
			printTarget = true
		} else {
			fmt.Fprintln(ex.Stderr(fr), "cd: OLDPWD not set")
			return 1
		}
	}

	if !strings.HasPrefix(target, "/") {
		target = fr.CWD + "/" + target
	}
	resolved, err := resolvePath(target)
	if err != nil {
		fmt.Fprintf(ex.Stderr(fr), "cd: %s: %v\n", target, err)
		return 1
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(ex.Stderr(fr), "cd: %s: not a directory\n", target)
		return 1
	}

	old := fr.CWD
	fr.CWD = resolved
	store.Set("OLDPWD", old)
	store.Set("PWD", resolved)
	if printTarget {
		fmt.Fprintln(ex.Stdout(fr), resolved)
	}
	return 0
}

func resolvePath(path string) (string, error) {
	parts := strings.Split(path, "/")
	var out []string
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, p)
		}
	}
	return "/" + strings.Join(out, "/"), nil
}

// Pwd reports fr.CWD, honoring -P to resolve symlinks along the way.
func Pwd(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	cwd := fr.CWD
	for _, a := range argv[1:] {
		if a == "-P" {
			if resolved, err := filepath.EvalSymlinks(cwd); err == nil {
				cwd = resolved
			}
		}
	}
	fmt.Fprintln(ex.Stdout(fr), cwd)
	return 0
}

// Read reads one line from stdin, splits it on $IFS the way word
// splitting does (but over already-literal input text, with no quote
// removal to perform), and assigns the fields to the named variables,
// with any surplus text folded into the last variable whole. With no
// variable names, the line is assigned to REPLY.
func Read(ex *exec.Executor, fr *frame.Frame, argv []string) int {
	names := argv[1:]
	if len(names) == 0 {
		names = []string{"REPLY"}
	}

	var in *os.File
	if f, ok := fr.Files.Get(0); ok {
		in = f
	} else {
		in = os.Stdin
	}
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return 1
	}
	line = strings.TrimSuffix(line, "\n")

	ifs := " \t\n"
	if v, ok := exec.VarTarget(fr).Get("IFS"); ok {
		ifs = v.Value
	}

	fields := splitIFS(line, ifs, len(names))
	store := exec.VarTarget(fr)
	for i, name := range names {
		if !frame.IsValidName(name) {
			fmt.Fprintf(ex.Stderr(fr), "read: %s: not a valid identifier\n", name)
			return shellerr.CategoryBuiltinUsage.ExitStatus()
		}
		val := ""
		if i < len(fields) {
			val = fields[i]
		}
		store.Set(name, val)
	}
	return 0
}

// splitIFS splits line on any run of ifs characters, the way POSIX field
// splitting treats unquoted text, but stops producing new fields once
// limit-1 have been emitted and folds the remainder (including any
// further IFS runs) whole into the final field.
func splitIFS(line, ifs string, limit int) []string {
	if ifs == "" {
		return []string{line}
	}
	var fields []string
	i := 0
	for i < len(line) {
		for i < len(line) && strings.ContainsRune(ifs, rune(line[i])) {
			i++
		}
		if i >= len(line) {
			break
		}
		if limit > 0 && len(fields) == limit-1 {
			fields = append(fields, strings.TrimRight(line[i:], ifs))
			return fields
		}
		start := i
		for i < len(line) && !strings.ContainsRune(ifs, rune(line[i])) {
			i++
		}
		fields = append(fields, line[start:i])
	}
	return fields
}
