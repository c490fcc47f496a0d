package animals

import (
	"fmt"
	"time"
)

// Kind es el discriminador que viaja en los documentos serializados.
type Kind string

const (
	KindDog  Kind = "Dog"
	KindCat  Kind = "Cat"
	KindBird Kind = "Bird"
)

// Size define los tamaños de perro soportados.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

const (
	DefaultHealthStatus = "Healthy"
	DefaultSize         = SizeMedium
	DefaultIndoor       = true
	DefaultWingspan     = 0.0
)

// Base agrupa los campos compartidos por todas las variantes.
type Base struct {
	ID           int
	Name         string
	Age          int
	Breed        string
	Owner        string
	HealthStatus string
}

// Animal es la unión cerrada Dog | Cat | Bird.
// El método sin exportar impide variantes fuera de este paquete.
type Animal interface {
	Info() Base
	isAnimal()
}

type Dog struct {
	Base
	Size Size
}

type Cat struct {
	Base
	Indoor bool
}

type Bird struct {
	Base
	Wingspan float64
}

func (d Dog) Info() Base  { return d.Base }
func (c Cat) Info() Base  { return c.Base }
func (b Bird) Info() Base { return b.Base }

func (Dog) isAnimal()  {}
func (Cat) isAnimal()  {}
func (Bird) isAnimal() {}

// VariantAttrs lleva el atributo propio de cada variante al decodificar.
// nil = no vino en el documento, se usa el default.
type VariantAttrs struct {
	Size     *Size
	Indoor   *bool
	Wingspan *float64
}

// Metadata es informativa: no se valida contra el contenido.
type Metadata struct {
	SavedAt      time.Time
	TotalAnimals int
	SnapshotID   string
}

// Snapshot es el contenido completo de un registro tal como se persiste.
type Snapshot struct {
	Metadata Metadata
	Animals  []Animal
}

func KindOf(a Animal) Kind {
	switch a.(type) {
	case Dog:
		return KindDog
	case Cat:
		return KindCat
	case Bird:
		return KindBird
	default:
		panic(fmt.Sprintf("animals: unknown variant %T", a))
	}
}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDog, KindCat, KindBird:
		return Kind(s), nil
	case "":
		return "", newInvalid("type", "animal type is required")
	default:
		return "", newInvalid("type", "unknown animal type %q", s)
	}
}

// Sound depende solo de la variante.
func Sound(a Animal) string {
	switch a.(type) {
	case Dog:
		return "Woof! Woof!"
	case Cat:
		return "Meow! Meow!"
	case Bird:
		return "Tweet-tweet!"
	default:
		panic(fmt.Sprintf("animals: unknown variant %T", a))
	}
}

// Describe arma la línea de presentación (no se usa para persistir).
func Describe(a Animal) string {
	b := a.Info()
	return fmt.Sprintf("ID: %d, Name: %s, Age: %d, Breed: %s, Owner: %s, Health status: %s",
		b.ID, b.Name, b.Age, b.Breed, b.Owner, b.HealthStatus)
}
