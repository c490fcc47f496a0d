package codec

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"pet-clinic-registry/internal/domain/animals"
)

// XML es el formato árbol: <pet_clinic><metadata/><animals><animal type="..."/></animals></pet_clinic>.
type XML struct{}

func (XML) Name() string { return NameXML }

type xmlDocument struct {
	XMLName  xml.Name    `xml:"pet_clinic"`
	Metadata xmlMetadata `xml:"metadata"`
	Animals  *xmlAnimals `xml:"animals"`
}

type xmlMetadata struct {
	SavedAt      string `xml:"saved_at"`
	TotalAnimals string `xml:"total_animals"`
	SnapshotID   string `xml:"snapshot_id,omitempty"`
}

type xmlAnimals struct {
	Items []xmlAnimal `xml:"animal"`
}

// Punteros: nil = el elemento no estaba en el documento.
type xmlAnimal struct {
	Type         *string `xml:"type,attr"`
	AnimalID     *string `xml:"animal_id"`
	Name         *string `xml:"name"`
	Age          *string `xml:"age"`
	Breed        *string `xml:"breed"`
	Owner        *string `xml:"owner"`
	HealthStatus *string `xml:"health_status"`
	DogSize      *string `xml:"dog_size"`
	IsIndoor     *string `xml:"is_indoor"`
	Wingspan     *string `xml:"wingspan"`
}

func (XML) Encode(s animals.Snapshot) ([]byte, error) {
	doc := xmlDocument{
		Metadata: xmlMetadata{
			SavedAt:      formatTime(s.Metadata.SavedAt),
			TotalAnimals: strconv.Itoa(s.Metadata.TotalAnimals),
			SnapshotID:   s.Metadata.SnapshotID,
		},
		Animals: &xmlAnimals{Items: make([]xmlAnimal, 0, len(s.Animals))},
	}
	for _, a := range s.Animals {
		doc.Animals.Items = append(doc.Animals.Items, toXMLAnimal(a))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func toXMLAnimal(a animals.Animal) xmlAnimal {
	b := a.Info()
	str := func(s string) *string { return &s }

	out := xmlAnimal{
		Type:         str(string(animals.KindOf(a))),
		AnimalID:     str(strconv.Itoa(b.ID)),
		Name:         str(b.Name),
		Age:          str(strconv.Itoa(b.Age)),
		Breed:        str(b.Breed),
		Owner:        str(b.Owner),
		HealthStatus: str(b.HealthStatus),
	}
	switch v := a.(type) {
	case animals.Dog:
		out.DogSize = str(string(v.Size))
	case animals.Cat:
		out.IsIndoor = str(formatBool(v.Indoor))
	case animals.Bird:
		out.Wingspan = str(formatReal(v.Wingspan))
	}
	return out
}

func (XML) Decode(data []byte) (animals.Snapshot, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return animals.Snapshot{}, invalid("document", "malformed xml: %v", err)
	}
	if doc.Animals == nil {
		return animals.Snapshot{}, invalid("animals", "element is missing")
	}

	total, _ := strconv.Atoi(strings.TrimSpace(doc.Metadata.TotalAnimals))
	snap := animals.Snapshot{
		Metadata: animals.Metadata{
			SavedAt:      parseTime(doc.Metadata.SavedAt),
			TotalAnimals: total,
			SnapshotID:   strings.TrimSpace(doc.Metadata.SnapshotID),
		},
		Animals: make([]animals.Animal, 0, len(doc.Animals.Items)),
	}

	for i, item := range doc.Animals.Items {
		a, err := decodeXMLAnimal(item)
		if err != nil {
			return animals.Snapshot{}, withPosition(i, err)
		}
		snap.Animals = append(snap.Animals, a)
	}
	return snap, nil
}

func decodeXMLAnimal(x xmlAnimal) (animals.Animal, error) {
	tag := ""
	if x.Type != nil {
		tag = *x.Type
	}
	kind, err := animals.ParseKind(tag)
	if err != nil {
		return nil, err
	}

	var b animals.Base
	if b.ID, err = requiredXMLInt(fieldAnimalID, x.AnimalID); err != nil {
		return nil, err
	}
	if b.Name, err = requiredXMLText(fieldName, x.Name); err != nil {
		return nil, err
	}
	if b.Age, err = requiredXMLInt(fieldAge, x.Age); err != nil {
		return nil, err
	}
	if b.Breed, err = requiredXMLText(fieldBreed, x.Breed); err != nil {
		return nil, err
	}
	if b.Owner, err = requiredXMLText(fieldOwner, x.Owner); err != nil {
		return nil, err
	}
	if x.HealthStatus != nil {
		b.HealthStatus = *x.HealthStatus
	}

	var attrs animals.VariantAttrs
	switch kind {
	case animals.KindDog:
		if x.DogSize != nil {
			size := animals.Size(strings.TrimSpace(*x.DogSize))
			attrs.Size = &size
		}
	case animals.KindCat:
		if x.IsIndoor != nil {
			indoor := parseBoolText(*x.IsIndoor)
			attrs.Indoor = &indoor
		}
	case animals.KindBird:
		if x.Wingspan != nil {
			w, err := strconv.ParseFloat(strings.TrimSpace(*x.Wingspan), 64)
			if err != nil {
				return nil, invalid(fieldWingspan, "must be a number, got %q", *x.Wingspan)
			}
			attrs.Wingspan = &w
		}
	}

	return animals.New(kind, b, attrs)
}

func requiredXMLText(field string, v *string) (string, error) {
	if v == nil {
		return "", invalid(field, "element is missing")
	}
	return *v, nil
}

func requiredXMLInt(field string, v *string) (int, error) {
	if v == nil {
		return 0, invalid(field, "element is missing")
	}
	n, err := strconv.Atoi(strings.TrimSpace(*v))
	if err != nil {
		return 0, invalid(field, "must be an integer, got %q", *v)
	}
	return n, nil
}
