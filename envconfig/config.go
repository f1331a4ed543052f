// config.go - Haupt-Konfigurationsfunktionen fuer spanqa
//
// Dieses Modul enthaelt:
// - DataDir: Verzeichnis mit den Trainingsdateien (SPANQA_DATA_DIR)
// - FigureDir: Ausgabeverzeichnis fuer Diagramme (SPANQA_FIGURE_DIR)
// - LearningRate: Lernrate fuer den Gradientenschritt (SPANQA_LEARNING_RATE)
// - Seed: Startwert fuer den Zufallsgenerator (SPANQA_SEED)
// - LogLevel: Gibt Log-Level zurueck (SPANQA_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Trainings-Parameter und Dateinamen
// - config_utils.go: Utility-Funktionen und AsMap/Values
package envconfig

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DataDir gibt das Daten-Verzeichnis zurueck
// Konfigurierbar via SPANQA_DATA_DIR
// Default: data/squad
func DataDir() string {
	if s := Var("SPANQA_DATA_DIR"); s != "" {
		return s
	}
	return "data/squad"
}

// FigureDir gibt das Verzeichnis fuer Diagramme zurueck
// Konfigurierbar via SPANQA_FIGURE_DIR
// Default: figs
func FigureDir() string {
	if s := Var("SPANQA_FIGURE_DIR"); s != "" {
		return s
	}
	return "figs"
}

// LearningRate gibt die Lernrate zurueck
// Konfigurierbar via SPANQA_LEARNING_RATE
// Default: 0.001
func LearningRate() float64 {
	return Float("SPANQA_LEARNING_RATE", 0.001)()
}

// Seed gibt den Startwert fuer den Zufallsgenerator zurueck
// Konfigurierbar via SPANQA_SEED
// Nicht gesetzt oder ungueltig: abgeleitet aus der aktuellen Zeit
func Seed() uint64 {
	if s := Var("SPANQA_SEED"); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
		slog.Warn("invalid environment variable, using time based seed", "key", "SPANQA_SEED", "value", s)
	}
	return uint64(time.Now().UnixNano())
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via SPANQA_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("SPANQA_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
