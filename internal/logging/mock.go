package logging

import "sync"

// MockLogger records log entries for assertions in tests. Loggers derived
// through WithError/WithField/WithFields write into the same record.
type MockLogger struct {
	rec           *recorder
	pendingError  error
	pendingFields []Field
}

// LogEntry is a single captured entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

type recorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewMockLogger returns an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{rec: &recorder{}}
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	if m.rec == nil {
		m.rec = &recorder{}
	}
	all := make([]Field, 0, len(m.pendingFields)+len(fields))
	all = append(all, m.pendingFields...)
	all = append(all, fields...)

	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.entries = append(m.rec.entries, LogEntry{Level: level, Message: msg, Fields: all, Error: m.pendingError})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("DEBUG", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("INFO", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("WARN", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("ERROR", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{rec: m.shared(), pendingError: err, pendingFields: m.pendingFields}
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	all := make([]Field, 0, len(m.pendingFields)+len(fields))
	all = append(all, m.pendingFields...)
	all = append(all, fields...)
	return &MockLogger{rec: m.shared(), pendingError: m.pendingError, pendingFields: all}
}

func (m *MockLogger) shared() *recorder {
	if m.rec == nil {
		m.rec = &recorder{}
	}
	return m.rec
}

// Entries returns a copy of all captured entries.
func (m *MockLogger) Entries() []LogEntry {
	rec := m.shared()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]LogEntry(nil), rec.entries...)
}

// GetEntriesByLevel returns the captured entries of one level.
func (m *MockLogger) GetEntriesByLevel(level string) []LogEntry {
	var entries []LogEntry
	for _, entry := range m.Entries() {
		if entry.Level == level {
			entries = append(entries, entry)
		}
	}
	return entries
}

// HasEntry reports whether an entry with the given level and message exists.
func (m *MockLogger) HasEntry(level, message string) bool {
	for _, entry := range m.Entries() {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}

// FieldValue returns the value of key on entry, if present.
func (e LogEntry) FieldValue(key string) (interface{}, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}
