package dotdir

import "path/filepath"

const (
	debugLogFile  = "debug.log"
	historyDBFile = "history.db"
)

// DebugLogPath returns the path of the JSON debug log written by
// "aitranslate serve --debug".
func (m *Manager) DebugLogPath(overrideDir string) (string, error) {
	return m.file(overrideDir, debugLogFile)
}

// HistoryDBPath returns the default SQLite history database path, used when
// history.sqlite_path is not configured.
func (m *Manager) HistoryDBPath(overrideDir string) (string, error) {
	return m.file(overrideDir, historyDBFile)
}

func (m *Manager) file(overrideDir, name string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
