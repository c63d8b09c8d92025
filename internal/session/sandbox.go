package session

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// joinUnderHome joins name onto home the way Rust's PathBuf::join does:
// an absolute name replaces the base entirely rather than being treated
// as relative to it. Go's filepath.Join has no such special case, but
// replicating it is what makes an escape attempt like
// "/home/../etc/passwd" resolve as an absolute path in its own right
// instead of silently nesting under home.
func joinUnderHome(home, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Clean(filepath.Join(home, name))
}

// canonicalize resolves name under the session's home directory and
// confirms the result does not escape it. name is first normalised to
// Unicode NFC so that two differently-normalized spellings of the same
// filename collide on the same canonical path, matching the byte-exact
// comparison the original implementation relied on. Symlinks are
// resolved when the target already exists on disk; for a not-yet-
// existing target (create, rename destination) the cleaned join is
// checked as-is, since there is nothing on disk yet to resolve.
func (s *Session) canonicalize(name string) (string, error) {
	normalized := norm.NFC.String(name)
	joined := joinUnderHome(s.canonicalHome, normalized)

	if resolved, err := filepath.EvalSymlinks(joined); err == nil {
		joined = resolved
	}

	if joined != s.canonicalHome && !strings.HasPrefix(joined, s.canonicalHome+string(os.PathSeparator)) {
		return "", ErrPathEscape
	}
	return joined, nil
}
