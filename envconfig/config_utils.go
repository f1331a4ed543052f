// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - BoolWithDefault/Bool: Boolean-Getter mit Default-Wert
// - String/StringWithDefault: String-Getter
// - Uint/Float: Zahlen-Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap: Gibt alle Konfigurationen als Map zurueck
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"
)

// =============================================================================
// Boolean-Getter
// =============================================================================

// BoolWithDefault gibt eine Funktion zurueck, die einen Bool mit Default-Wert liest
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool gibt eine Funktion zurueck, die einen Bool liest (Default: false)
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// =============================================================================
// String-Getter
// =============================================================================

// String gibt eine Funktion zurueck, die einen String liest
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

// StringWithDefault gibt eine Funktion zurueck, die einen String mit Default liest
func StringWithDefault(s, defaultValue string) func() string {
	return func() string {
		if v := Var(s); v != "" {
			return v
		}
		return defaultValue
	}
}

// =============================================================================
// Zahlen-Getter
// =============================================================================

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Float gibt eine Funktion zurueck, die einen float64 mit Default-Wert liest
func Float(key string, defaultValue float64) func() float64 {
	return func() float64 {
		if s := Var(key); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return f
			}
		}
		return defaultValue
	}
}

// =============================================================================
// Export-Strukturen und -Funktionen
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap gibt alle Konfigurationen als Map zurueck
// Enthaelt Namen, aktuelle Werte und Beschreibungen
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"SPANQA_DEBUG":               {"SPANQA_DEBUG", LogLevel(), "Show additional debug information (e.g. SPANQA_DEBUG=1)"},
		"SPANQA_DATA_DIR":            {"SPANQA_DATA_DIR", DataDir(), "Directory with the id, span and word vector files (default \"data/squad\")"},
		"SPANQA_FIGURE_DIR":          {"SPANQA_FIGURE_DIR", FigureDir(), "Directory the training charts are written to (default \"figs\")"},
		"SPANQA_BATCH_SIZE":          {"SPANQA_BATCH_SIZE", BatchSize(), "Samples per training step (default 100)"},
		"SPANQA_EPOCHS":              {"SPANQA_EPOCHS", Epochs(), "Passes over the training split (default 10)"},
		"SPANQA_LEARNING_RATE":       {"SPANQA_LEARNING_RATE", LearningRate(), "Gradient step size (default 0.001)"},
		"SPANQA_REPORT_EVERY":        {"SPANQA_REPORT_EVERY", ReportEvery(), "Steps averaged into one metric snapshot (default 20)"},
		"SPANQA_ORDER":               {"SPANQA_ORDER", Order(), "Order of the first pass: sequential, by-length or random (default sequential)"},
		"SPANQA_SEED":                {"SPANQA_SEED", Var("SPANQA_SEED"), "Seed for batch shuffling (default: time based)"},
		"SPANQA_MAX_CONTEXT_LENGTH":  {"SPANQA_MAX_CONTEXT_LENGTH", MaxContextLength(), "Context paragraphs are padded or truncated to this length (default 300)"},
		"SPANQA_MAX_QUESTION_LENGTH": {"SPANQA_MAX_QUESTION_LENGTH", MaxQuestionLength(), "Questions are padded or truncated to this length (default 25)"},
		"SPANQA_EMBEDDING_FILE":      {"SPANQA_EMBEDDING_FILE", EmbeddingFile(), "Word vector file inside the data directory (default \"glove.trimmed.100.npz\")"},
		"SPANQA_EMBEDDING_KEY":       {"SPANQA_EMBEDDING_KEY", EmbeddingKey(), "Array name inside the npz archive (default \"glove\")"},
		"SPANQA_HISTORY_DB":          {"SPANQA_HISTORY_DB", HistoryDB(), "SQLite file that records training runs (default: disabled)"},
	}
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
