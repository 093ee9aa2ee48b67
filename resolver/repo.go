package resolver

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RepoDir checks that path is a real directory and returns its absolute form.
//
// Symlinks are refused: paths derived from the checkout are canonicalized
// later and would no longer point inside it.
func RepoDir(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", fmt.Errorf("could not find lammps checkout: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("lammps checkout %s must not be a symlink", path)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("lammps checkout %s is not a directory", path)
	}
	return filepath.Abs(path)
}

// DotGitDir returns the git directory for a checkout.
//
// A submodule normally has a ".git" file holding "gitdir: <path>" instead of
// a directory; those indirections are followed until a directory is found.
// The boolean is false when the checkout is not under git at all.
func DotGitDir(repo string) (string, bool, error) {
	path := filepath.Join(repo, ".git")
	for hops := 0; ; hops++ {
		info, err := os.Stat(path)
		if os.IsNotExist(err) && hops == 0 {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("resolving git dir: %w", err)
		}
		if info.IsDir() {
			return path, true, nil
		}
		if hops >= 8 {
			return "", false, fmt.Errorf("too many gitdir indirections starting at %s", filepath.Join(repo, ".git"))
		}

		target, err := readGitdirFile(path)
		if err != nil {
			return "", false, err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
	}
}

func readGitdirFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return "", fmt.Errorf("empty .git file: %s", path)
	}
	line := sc.Text()
	rest, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", fmt.Errorf("%s: expected \"gitdir:\" line, got %q", path, line)
	}
	return strings.TrimSpace(rest), nil
}

// SubmoduleHead returns the trimmed contents of HEAD for the checkout's git
// directory, or "" when the checkout is not a git repository.
func SubmoduleHead(repo string) (string, error) {
	dir, ok, err := DotGitDir(repo)
	if err != nil || !ok {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(dir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
