// config_features.go - Trainings-Parameter und Dateinamen
//
// Dieses Modul enthaelt:
// - Batch- und Epochen-Einstellungen
// - Maximale Sequenzlaengen
// - Word-Vektor- und Historien-Dateien
package envconfig

// =============================================================================
// Trainings-Parameter
// =============================================================================

var (
	// BatchSize ist die Anzahl Samples pro Trainingsschritt
	BatchSize = Uint("SPANQA_BATCH_SIZE", 100)

	// Epochs ist die Anzahl der Durchlaeufe ueber die Trainingsdaten
	Epochs = Uint("SPANQA_EPOCHS", 10)

	// ReportEvery ist die Anzahl Schritte pro Metrik-Snapshot
	ReportEvery = Uint("SPANQA_REPORT_EVERY", 20)

	// Order ist die Reihenfolge des ersten Durchlaufs (sequential, by-length, random)
	Order = String("SPANQA_ORDER")
)

// =============================================================================
// Sequenzlaengen
// =============================================================================

var (
	// MaxContextLength ist die Laenge, auf die Kontext-Absaetze gepaddet werden
	MaxContextLength = Uint("SPANQA_MAX_CONTEXT_LENGTH", 300)

	// MaxQuestionLength ist die Laenge, auf die Fragen gepaddet werden
	MaxQuestionLength = Uint("SPANQA_MAX_QUESTION_LENGTH", 25)
)

// =============================================================================
// Dateien
// =============================================================================

var (
	// EmbeddingFile ist der Dateiname der Word-Vektoren im Daten-Verzeichnis
	EmbeddingFile = StringWithDefault("SPANQA_EMBEDDING_FILE", "glove.trimmed.100.npz")

	// EmbeddingKey ist der Eintrag innerhalb des npz-Archivs
	EmbeddingKey = StringWithDefault("SPANQA_EMBEDDING_KEY", "glove")

	// HistoryDB ist der Pfad zur SQLite-Historie (leer = deaktiviert)
	HistoryDB = String("SPANQA_HISTORY_DB")
)
