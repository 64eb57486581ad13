package gwlog

import "go.uber.org/zap/zapcore"

// LevelFromString parses a level name into a zapcore.Level, defaulting
// to info for an empty string.
func LevelFromString(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}
