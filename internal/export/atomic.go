package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const filePerm os.FileMode = 0644

// writeAtomic fills a temp file next to path and renames it into place.
// On any failure the temp file is removed and path is left untouched.
func writeAtomic(path string, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := fill(bw); err != nil {
		return errors.Join(err, tmp.Close())
	}
	if err := bw.Flush(); err != nil {
		return errors.Join(fmt.Errorf("flush %s: %w", path, err), tmp.Close())
	}
	if err := tmp.Sync(); err != nil {
		return errors.Join(fmt.Errorf("sync %s: %w", path, err), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// copyFile copies src to dst byte for byte through writeAtomic.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, in.Close())
	}()

	return writeAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// stage collects the files of one run in a scratch directory next to the
// model directory. Nothing reaches the model directory until commit, and a
// failed commit puts back whatever it replaced.
type stage struct {
	dir    string // scratch directory
	target string // model directory
	files  []string
}

func newStage(target string) (*stage, error) {
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}
	dir, err := os.MkdirTemp(parent, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}
	return &stage{dir: dir, target: target}, nil
}

// path returns where rel lives in the scratch directory. rel must stay inside
// the model directory.
func (s *stage) path(rel string) (string, error) {
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%s escapes the model directory", rel)
	}
	p := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", err
	}
	return p, nil
}

func (s *stage) write(rel string, fill func(io.Writer) error) error {
	p, err := s.path(rel)
	if err != nil {
		return err
	}
	if err := writeAtomic(p, fill); err != nil {
		return err
	}
	s.files = append(s.files, rel)
	return nil
}

func (s *stage) copy(rel, src string) error {
	p, err := s.path(rel)
	if err != nil {
		return err
	}
	if err := copyFile(src, p); err != nil {
		return err
	}
	s.files = append(s.files, rel)
	return nil
}

// commit moves every staged file into the model directory. Files it replaces
// are parked in the scratch directory until all moves succeed; on failure they
// are put back and directories commit created are removed again.
func (s *stage) commit() (err error) {
	type moved struct{ rel, backup string }
	var (
		done    []moved
		created []string
	)

	mkdir := func(dir string) error {
		var missing []string
		for d := dir; ; d = filepath.Dir(d) {
			if _, err := os.Stat(d); err == nil {
				break
			}
			missing = append(missing, d)
			if filepath.Dir(d) == d {
				break
			}
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		for i := len(missing) - 1; i >= 0; i-- {
			created = append(created, missing[i])
		}
		return nil
	}

	defer func() {
		if err == nil {
			return
		}
		for i := len(done) - 1; i >= 0; i-- {
			dst := filepath.Join(s.target, done[i].rel)
			_ = os.Remove(dst)
			if done[i].backup != "" {
				_ = os.Rename(done[i].backup, dst)
			}
		}
		for i := len(created) - 1; i >= 0; i-- {
			_ = os.Remove(created[i])
		}
	}()

	backups := filepath.Join(s.dir, ".replaced")
	for _, rel := range s.files {
		dst := filepath.Join(s.target, rel)
		if err := mkdir(filepath.Dir(dst)); err != nil {
			return fmt.Errorf("commit %s: %w", rel, err)
		}

		m := moved{rel: rel}
		if _, statErr := os.Lstat(dst); statErr == nil {
			m.backup = filepath.Join(backups, rel)
			if err := os.MkdirAll(filepath.Dir(m.backup), 0755); err != nil {
				return fmt.Errorf("commit %s: %w", rel, err)
			}
			if err := os.Rename(dst, m.backup); err != nil {
				return fmt.Errorf("commit %s: %w", rel, err)
			}
		}
		if err := os.Rename(filepath.Join(s.dir, rel), dst); err != nil {
			if m.backup != "" {
				_ = os.Rename(m.backup, dst)
			}
			return fmt.Errorf("commit %s: %w", rel, err)
		}
		done = append(done, m)
	}
	return nil
}

// discard removes the scratch directory and everything left in it.
func (s *stage) discard() error {
	return os.RemoveAll(s.dir)
}
