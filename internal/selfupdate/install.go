package selfupdate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

var (
	// Test seams.
	osExecutable = os.Executable
	evalSymlinks = filepath.EvalSymlinks
	renameFile   = os.Rename
)

// Installation describes the files self-update owns inside the install directory.
type Installation struct {
	Dir    string
	Files  []string
	SubDir string
}

// ResolveInstallation builds an Installation. An empty dir means the directory
// of the running executable, and an empty entry in files stands for the
// executable's own file name.
func ResolveInstallation(dir string, files []string, subDir string) (*Installation, error) {
	exe := ""
	if dir == "" || containsEmpty(files) {
		p, err := resolveExecPath()
		if err != nil {
			return nil, err
		}
		exe = p
	}
	if dir == "" {
		dir = filepath.Dir(exe)
	}

	managed := make([]string, 0, len(files))
	seen := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			f = filepath.Base(exe)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		managed = append(managed, f)
	}

	return &Installation{Dir: dir, Files: managed, SubDir: subDir}, nil
}

func resolveExecPath() (string, error) {
	p, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("determining executable path: %w", err)
	}
	resolved, err := evalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", p, err)
	}
	return resolved, nil
}

func containsEmpty(files []string) bool {
	for _, f := range files {
		if f == "" {
			return true
		}
	}
	return false
}

// Backup copies every managed file and the managed subdirectory into a new
// backup_<version> directory inside the install directory and returns its
// path. An existing backup for the same version is never overwritten.
func (in *Installation) Backup(version string) (_ string, err error) {
	backupDir := filepath.Join(in.Dir, "backup_"+version)
	if _, statErr := os.Stat(backupDir); statErr == nil {
		backupDir += "_" + time.Now().Format("20060102_150405")
	}
	if err := os.Mkdir(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(backupDir)
		}
	}()

	for _, name := range in.Files {
		src := filepath.Join(in.Dir, name)
		if !exists(src) {
			continue
		}
		if err := copyFile(src, filepath.Join(backupDir, name)); err != nil {
			return "", fmt.Errorf("backing up %s: %w", name, err)
		}
	}

	if in.SubDir != "" {
		src := filepath.Join(in.Dir, in.SubDir)
		if exists(src) {
			if err := copyTree(src, filepath.Join(backupDir, in.SubDir)); err != nil {
				return "", fmt.Errorf("backing up %s: %w", in.SubDir, err)
			}
		}
	}

	return backupDir, nil
}

// Replace installs the managed files and subdirectory found under srcRoot.
// Files are written to a temporary name in the install directory and renamed
// into place so a running executable can be replaced.
func (in *Installation) Replace(srcRoot string) error {
	for _, name := range in.Files {
		src := filepath.Join(srcRoot, name)
		if !exists(src) {
			continue
		}
		if err := replaceFile(src, filepath.Join(in.Dir, name)); err != nil {
			return fmt.Errorf("replacing %s: %w", name, err)
		}
	}

	if in.SubDir != "" {
		src := filepath.Join(srcRoot, in.SubDir)
		if exists(src) {
			dst := filepath.Join(in.Dir, in.SubDir)
			if err := os.RemoveAll(dst); err != nil {
				return fmt.Errorf("removing %s: %w", in.SubDir, err)
			}
			if err := copyTree(src, dst); err != nil {
				return fmt.Errorf("replacing %s: %w", in.SubDir, err)
			}
		}
	}
	return nil
}

// Restore puts the contents of a backup made by Backup back into the install directory.
func (in *Installation) Restore(backupDir string) error {
	var errs []error
	for _, name := range in.Files {
		src := filepath.Join(backupDir, name)
		if !exists(src) {
			continue
		}
		if err := replaceFile(src, filepath.Join(in.Dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("restoring %s: %w", name, err))
		}
	}

	if in.SubDir != "" {
		src := filepath.Join(backupDir, in.SubDir)
		if exists(src) {
			dst := filepath.Join(in.Dir, in.SubDir)
			if err := os.RemoveAll(dst); err != nil {
				errs = append(errs, err)
			} else if err := copyTree(src, dst); err != nil {
				errs = append(errs, fmt.Errorf("restoring %s: %w", in.SubDir, err))
			}
		}
	}
	return errors.Join(errs...)
}

func replaceFile(src, dst string) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(dst); statErr == nil {
		mode = info.Mode().Perm()
	} else if info, statErr := os.Stat(src); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".offdroid-replace-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	in, err := os.Open(src)
	if err != nil {
		tmp.Close()
		return err
	}
	_, err = io.Copy(tmp, in)
	in.Close()
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if err := os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return renameFile(tmpName, dst)
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type().IsRegular():
			return copyFile(p, target)
		default:
			return nil
		}
	})
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
