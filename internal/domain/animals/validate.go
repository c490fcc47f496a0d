package animals

import (
	"math"
	"strings"
	"unicode/utf8"
)

func NewDog(b Base, size Size) (Dog, error) {
	b, err := validateBase(b)
	if err != nil {
		return Dog{}, err
	}
	if _, err := ParseSize(string(size)); err != nil {
		return Dog{}, err
	}
	return Dog{Base: b, Size: size}, nil
}

// NewCat no falla por el atributo propio: cualquier valor es un bool.
func NewCat(b Base, indoor bool) (Cat, error) {
	b, err := validateBase(b)
	if err != nil {
		return Cat{}, err
	}
	return Cat{Base: b, Indoor: indoor}, nil
}

func NewBird(b Base, wingspan float64) (Bird, error) {
	b, err := validateBase(b)
	if err != nil {
		return Bird{}, err
	}
	if math.IsNaN(wingspan) || math.IsInf(wingspan, 0) {
		return Bird{}, newInvalid("wingspan", "must be a finite number")
	}
	if wingspan < 0 {
		return Bird{}, newInvalid("wingspan", "must be non-negative, got %v", wingspan)
	}
	return Bird{Base: b, Wingspan: wingspan}, nil
}

// New despacha al constructor de la variante según el discriminador.
// Es el único punto de entrada de los decoders.
func New(kind Kind, b Base, attrs VariantAttrs) (Animal, error) {
	switch kind {
	case KindDog:
		size := DefaultSize
		if attrs.Size != nil {
			size = *attrs.Size
		}
		return NewDog(b, size)
	case KindCat:
		indoor := DefaultIndoor
		if attrs.Indoor != nil {
			indoor = *attrs.Indoor
		}
		return NewCat(b, indoor)
	case KindBird:
		wingspan := DefaultWingspan
		if attrs.Wingspan != nil {
			wingspan = *attrs.Wingspan
		}
		return NewBird(b, wingspan)
	default:
		_, err := ParseKind(string(kind))
		return nil, err
	}
}

// validate revisa un registro ya armado, por ejemplo un literal Dog{...} que no pasó por el constructor.
func validate(a Animal) error {
	switch v := a.(type) {
	case Dog:
		_, err := NewDog(v.Base, v.Size)
		return err
	case Cat:
		_, err := NewCat(v.Base, v.Indoor)
		return err
	case Bird:
		_, err := NewBird(v.Base, v.Wingspan)
		return err
	case nil:
		return newInvalid("", "animal is required")
	default:
		return newInvalid("type", "unknown animal variant %T", a)
	}
}

func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(s), nil
	default:
		return "", newInvalid("dog_size", "must be one of %s, %s, %s; got %q", SizeSmall, SizeMedium, SizeLarge, s)
	}
}

func validateBase(b Base) (Base, error) {
	if err := validatePositive("animal_id", b.ID); err != nil {
		return Base{}, err
	}
	if err := validatePositive("age", b.Age); err != nil {
		return Base{}, err
	}
	if err := validateNonEmpty("name", b.Name); err != nil {
		return Base{}, err
	}
	if err := validateNonEmpty("breed", b.Breed); err != nil {
		return Base{}, err
	}
	if err := validateNonEmpty("owner", b.Owner); err != nil {
		return Base{}, err
	}
	if err := validateText("health_status", b.HealthStatus); err != nil {
		return Base{}, err
	}
	if strings.TrimSpace(b.HealthStatus) == "" {
		b.HealthStatus = DefaultHealthStatus
	}
	return b, nil
}

func validatePositive(field string, n int) error {
	if n <= 0 {
		return newInvalid(field, "must be a positive integer, got %d", n)
	}
	return nil
}

func validateNonEmpty(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return newInvalid(field, "must not be empty")
	}
	return validateText(field, s)
}

// validateText exige UTF-8 válido con caracteres que XML 1.0 puede llevar;
// si no, los encoders los cambian por U+FFFD sin avisar.
func validateText(field, s string) error {
	if !utf8.ValidString(s) {
		return newInvalid(field, "must be valid UTF-8")
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return newInvalid(field, "contains unsupported character %U", r)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
