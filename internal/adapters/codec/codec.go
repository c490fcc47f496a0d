// Package codec serializa snapshots del registro en los dos formatos de archivo soportados:
// documento XML (árbol) y documento JSON (clave-valor plano).
package codec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"pet-clinic-registry/internal/domain/animals"
)

const (
	NameJSON = "json"
	NameXML  = "xml"
)

// Nombres de campo compartidos por ambos formatos.
const (
	fieldType         = "type"
	fieldAnimalID     = "animal_id"
	fieldName         = "name"
	fieldAge          = "age"
	fieldBreed        = "breed"
	fieldOwner        = "owner"
	fieldHealthStatus = "health_status"
	fieldDogSize      = "dog_size"
	fieldIsIndoor     = "is_indoor"
	fieldWingspan     = "wingspan"
)

// ByName devuelve el codec registrado para "json" o "xml".
func ByName(name string) (animals.Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameJSON:
		return JSON{}, nil
	case NameXML:
		return XML{}, nil
	default:
		return nil, fmt.Errorf("codec: unknown format %q", name)
	}
}

// formatReal siempre deja parte decimal ("0.0", "2.5") para que se lea como real.
func formatReal(f float64) string {
	abs := math.Abs(f)
	var s string
	if abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBoolText(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// parseTime es permisivo: la metadata es informativa, un valor ilegible queda en cero.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func withPosition(i int, err error) error {
	return fmt.Errorf("animal #%d: %w", i+1, err)
}

func invalid(field, format string, args ...any) error {
	return &animals.InvalidDataError{Field: field, Message: fmt.Sprintf(format, args...)}
}
