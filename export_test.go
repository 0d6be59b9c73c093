package reel

// Activate exposes activate for external tests.
func Activate(s *StreamSession) bool { return s.activate() }

// Ingest exposes ingest for external tests, returning the malformed lines.
func Ingest(s *StreamSession, cumulative string) []string {
	return s.ingest(cumulative).malformed
}

// Finish exposes finish for external tests.
func Finish(s *StreamSession) { s.finish() }

// Fail exposes fail for external tests.
func Fail(s *StreamSession, err error) bool { return s.fail(err) }

// CancelSession exposes cancel for external tests.
func CancelSession(s *StreamSession) bool { return s.cancel() }
