package level_test

import (
	"testing"

	"github.com/north-cloud/richlog/level"
)

func TestOrdering(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(level.All); i++ {
		if level.All[i-1] >= level.All[i] {
			t.Errorf("levels out of order: %s (%d) >= %s (%d)",
				level.All[i-1], int(level.All[i-1]), level.All[i], int(level.All[i]))
		}
	}

	// The ladder deliberately places FATAL below CRITICAL.
	if level.Fatal >= level.Critical {
		t.Error("Fatal must be less severe than Critical")
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	cases := map[level.Level]string{
		level.Debug:     "DEBUG",
		level.Notice:    "NOTICE",
		level.Warning:   "WARNING",
		level.Emergency: "EMERGENCY",
		level.Level(42): "LEVEL(42)",
	}
	for l, want := range cases {
		if got := l.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", int(l), got, want)
		}
	}

	if got := level.Error.Lower(); got != "error" {
		t.Errorf("Lower() = %q, want %q", got, "error")
	}
}

func TestSyslogSeverity(t *testing.T) {
	t.Parallel()

	cases := map[level.Level]int{
		level.Emergency: 0,
		level.Alert:     1,
		level.Fatal:     1,
		level.Critical:  2,
		level.Error:     3,
		level.Warning:   4,
		level.Notice:    5,
		level.Info:      6,
		level.Debug:     7,
		level.Level(99): 7,
	}
	for l, want := range cases {
		if got := l.SyslogSeverity(); got != want {
			t.Errorf("SyslogSeverity(%s) = %d, want %d", l, got, want)
		}
	}
}

func TestTable(t *testing.T) {
	t.Parallel()

	if got := level.Alert.Table(); got != "log_alert" {
		t.Errorf("Table() = %q, want log_alert", got)
	}
	if got := level.Level(33).Table(); got != "log_info" {
		t.Errorf("Table() for unknown level = %q, want log_info", got)
	}
}

func TestIcon(t *testing.T) {
	t.Parallel()

	if got := level.Debug.Icon(); got != "🐛" {
		t.Errorf("Icon(Debug) = %q", got)
	}
	if got := level.Level(99).Icon(); got != "" {
		t.Errorf("Icon for unknown level = %q, want empty", got)
	}
}

func TestNearest(t *testing.T) {
	t.Parallel()

	cases := map[level.Level]level.Level{
		level.Info:      level.Info,
		level.Level(22): level.Info,
		level.Level(35): level.Warning,
		level.Level(57): level.Fatal,
		level.Level(5):  level.Debug,
		level.Level(99): level.Emergency,
	}
	for in, want := range cases {
		if got := in.Nearest(); got != want {
			t.Errorf("Nearest(%d) = %s, want %s", int(in), got, want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]level.Level{
		"debug":     level.Debug,
		"INFO":      level.Info,
		"Notice":    level.Notice,
		"warn":      level.Warning,
		"warning":   level.Warning,
		"crit":      level.Critical,
		"emergency": level.Emergency,
		" fatal ":   level.Fatal,
	}
	for in, want := range cases {
		got, err := level.Parse(in)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Parse(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := level.Parse("loud"); err == nil {
		t.Error("Parse of unknown name should error")
	}
}
