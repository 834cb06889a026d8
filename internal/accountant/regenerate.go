package accountant

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ai-accounting-mcp/internal/errs"
)

// RegenerateResult reports what regenerate_reports did (§4.G).
type RegenerateResult struct {
	Reason        string         `json:"reason"`
	RegeneratedAt string         `json:"regeneratedAt"`
	BackupPath    string         `json:"backupPath,omitempty"`
	FileCounts    map[string]int `json:"fileCounts,omitempty"`
}

// RegenerateReports is the §4.G ops tool. HTML report rendering is an
// external collaborator out of scope for this module (Non-goals); here
// regeneration means recomputing every audit report as plaintext
// (already handled by the Generate* methods on demand) and, when
// requested, snapshotting backupDirectories into a timestamped ZIP under
// backupsDir.
func (s *Server) RegenerateReports(reason string, createZipBackup bool, backupDirectories []string, backupsDir string) (RegenerateResult, error) {
	if reason == "" {
		return RegenerateResult{}, errs.Validation("reason", "reason is required")
	}
	result := RegenerateResult{Reason: reason, RegeneratedAt: time.Now().UTC().Format(time.RFC3339)}
	if !createZipBackup {
		return result, nil
	}

	if err := os.MkdirAll(backupsDir, 0o755); err != nil {
		return RegenerateResult{}, errs.IOError("failed to create backups directory", err)
	}
	stamp := time.Now().UTC().Format("20060102T150405Z")
	zipPath := filepath.Join(backupsDir, fmt.Sprintf("backup_%s.zip", stamp))

	counts, err := writeBackupZip(zipPath, backupDirectories)
	if err != nil {
		return RegenerateResult{}, err
	}
	result.BackupPath = zipPath
	result.FileCounts = counts
	return result, nil
}

func writeBackupZip(zipPath string, dirs []string) (map[string]int, error) {
	f, err := os.Create(zipPath)
	if err != nil {
		return nil, errs.IOError("failed to create backup archive", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	counts := make(map[string]int, len(dirs))
	for _, dir := range dirs {
		count, err := addDirToZip(zw, dir)
		if err != nil {
			zw.Close()
			return nil, err
		}
		counts[dir] = count
	}
	if err := zw.Close(); err != nil {
		return nil, errs.IOError("failed to finalize backup archive", err)
	}
	return counts, nil
}

func addDirToZip(zw *zip.Writer, dir string) (int, error) {
	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(filepath.Dir(dir), path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		if _, err := io.Copy(w, src); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, errs.IOError("failed to archive directory "+dir, err)
	}
	return count, nil
}
