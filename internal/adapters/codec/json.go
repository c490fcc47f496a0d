package codec

import (
	"bytes"
	"encoding/json"
	"strings"

	"pet-clinic-registry/internal/domain/animals"
)

// JSON es el formato clave-valor: {"animals": [...], "metadata": {...}}.
type JSON struct{}

func (JSON) Name() string { return NameJSON }

type jsonDocument struct {
	Animals  []jsonAnimal `json:"animals"`
	Metadata jsonMetadata `json:"metadata"`
}

type jsonMetadata struct {
	SavedAt      string `json:"saved_at"`
	TotalAnimals int    `json:"total_animals"`
	SnapshotID   string `json:"snapshot_id,omitempty"`
}

// El orden de los campos es el orden de salida.
type jsonAnimal struct {
	Type         string    `json:"type"`
	AnimalID     int       `json:"animal_id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Breed        string    `json:"breed"`
	Owner        string    `json:"owner"`
	HealthStatus string    `json:"health_status"`
	DogSize      *string   `json:"dog_size,omitempty"`
	IsIndoor     *bool     `json:"is_indoor,omitempty"`
	Wingspan     *jsonReal `json:"wingspan,omitempty"`
}

// jsonReal conserva la parte decimal al escribir (0.0 y no 0).
type jsonReal float64

func (r jsonReal) MarshalJSON() ([]byte, error) {
	return []byte(formatReal(float64(r))), nil
}

func (JSON) Encode(s animals.Snapshot) ([]byte, error) {
	doc := jsonDocument{
		Animals: make([]jsonAnimal, 0, len(s.Animals)),
		Metadata: jsonMetadata{
			SavedAt:      formatTime(s.Metadata.SavedAt),
			TotalAnimals: s.Metadata.TotalAnimals,
			SnapshotID:   s.Metadata.SnapshotID,
		},
	}
	for _, a := range s.Animals {
		doc.Animals = append(doc.Animals, toJSONAnimal(a))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toJSONAnimal(a animals.Animal) jsonAnimal {
	b := a.Info()
	out := jsonAnimal{
		Type:         string(animals.KindOf(a)),
		AnimalID:     b.ID,
		Name:         b.Name,
		Age:          b.Age,
		Breed:        b.Breed,
		Owner:        b.Owner,
		HealthStatus: b.HealthStatus,
	}
	switch v := a.(type) {
	case animals.Dog:
		size := string(v.Size)
		out.DogSize = &size
	case animals.Cat:
		indoor := v.Indoor
		out.IsIndoor = &indoor
	case animals.Bird:
		w := jsonReal(v.Wingspan)
		out.Wingspan = &w
	}
	return out
}

// Decode lee la metadata sin validarla y luego los animales en orden.
// Un solo registro inválido aborta todo.
func (JSON) Decode(data []byte) (animals.Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return animals.Snapshot{}, invalid("document", "malformed json: %v", err)
	}
	if top == nil {
		return animals.Snapshot{}, invalid("document", "expected a json object")
	}

	snap := animals.Snapshot{Animals: make([]animals.Animal, 0)}

	if raw, ok := top["metadata"]; ok {
		var meta jsonMetadata
		_ = json.Unmarshal(raw, &meta) // informativa
		snap.Metadata = animals.Metadata{
			SavedAt:      parseTime(meta.SavedAt),
			TotalAnimals: meta.TotalAnimals,
			SnapshotID:   meta.SnapshotID,
		}
	}

	raw, ok := top["animals"]
	if !ok || isNull(raw) {
		return snap, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return animals.Snapshot{}, invalid("animals", "must be a list")
	}

	for i, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			return animals.Snapshot{}, withPosition(i, invalid("document", "animal must be an object"))
		}
		a, err := decodeJSONAnimal(obj)
		if err != nil {
			return animals.Snapshot{}, withPosition(i, err)
		}
		snap.Animals = append(snap.Animals, a)
	}
	return snap, nil
}

func decodeJSONAnimal(obj map[string]json.RawMessage) (animals.Animal, error) {
	tag, err := optionalJSONString(obj, fieldType)
	if err != nil {
		return nil, err
	}
	kind, err := animals.ParseKind(tag)
	if err != nil {
		return nil, err
	}

	var b animals.Base
	if b.ID, err = requiredJSONInt(obj, fieldAnimalID); err != nil {
		return nil, err
	}
	if b.Name, err = requiredJSONString(obj, fieldName); err != nil {
		return nil, err
	}
	if b.Age, err = requiredJSONInt(obj, fieldAge); err != nil {
		return nil, err
	}
	if b.Breed, err = requiredJSONString(obj, fieldBreed); err != nil {
		return nil, err
	}
	if b.Owner, err = requiredJSONString(obj, fieldOwner); err != nil {
		return nil, err
	}
	if b.HealthStatus, err = optionalJSONString(obj, fieldHealthStatus); err != nil {
		return nil, err
	}

	var attrs animals.VariantAttrs
	switch kind {
	case animals.KindDog:
		if raw, ok := obj[fieldDogSize]; ok && !isNull(raw) {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, invalid(fieldDogSize, "must be a string")
			}
			size := animals.Size(s)
			attrs.Size = &size
		}
	case animals.KindCat:
		if raw, ok := obj[fieldIsIndoor]; ok {
			indoor := coerceJSONBool(raw)
			attrs.Indoor = &indoor
		}
	case animals.KindBird:
		if raw, ok := obj[fieldWingspan]; ok {
			var w float64
			if isNull(raw) || json.Unmarshal(raw, &w) != nil {
				return nil, invalid(fieldWingspan, "must be a number")
			}
			attrs.Wingspan = &w
		}
	}

	return animals.New(kind, b, attrs)
}

func requiredJSONInt(obj map[string]json.RawMessage, field string) (int, error) {
	raw, ok := obj[field]
	if !ok {
		return 0, invalid(field, "is required")
	}
	var n int
	if isNull(raw) || json.Unmarshal(raw, &n) != nil {
		return 0, invalid(field, "must be an integer, got %s", string(raw))
	}
	return n, nil
}

func requiredJSONString(obj map[string]json.RawMessage, field string) (string, error) {
	raw, ok := obj[field]
	if !ok {
		return "", invalid(field, "is required")
	}
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", invalid(field, "must be a string, got %s", string(raw))
	}
	return s, nil
}

// optionalJSONString: ausente o null = "".
func optionalJSONString(obj map[string]json.RawMessage, field string) (string, error) {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", invalid(field, "must be a string, got %s", string(raw))
	}
	return s, nil
}

// coerceJSONBool convierte cualquier valor a bool; no falla nunca.
func coerceJSONBool(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return parseBoolText(t)
	default:
		return false
	}
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
