package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pet-clinic-registry/internal/domain/animals"
)

var sizeChoices = map[string]animals.Size{
	"1": animals.SizeSmall,
	"2": animals.SizeMedium,
	"3": animals.SizeLarge,
}

// addAnimal repite el formulario mientras los datos sean inválidos.
// Un id repetido no se reintenta: se informa como error.
func (s *Shell) addAnimal() error {
	for {
		a, err := s.animalForm()
		if err == nil {
			s.printf("Animal %s added successfully!\n", a.Info().Name)
			return nil
		}
		if errors.Is(err, errQuit) || !animals.IsInvalidData(err) {
			return err
		}
		s.printf("Invalid data: %v. Please try again.\n", err)
	}
}

func (s *Shell) animalForm() (animals.Animal, error) {
	kind, err := s.promptKind()
	if err != nil {
		return nil, err
	}

	var b animals.Base
	if b.Name, err = s.prompt("Name: "); err != nil {
		return nil, err
	}
	if b.Age, err = s.promptInt("Age: ", "age"); err != nil {
		return nil, err
	}
	if b.Breed, err = s.prompt("Breed: "); err != nil {
		return nil, err
	}
	if b.Owner, err = s.prompt("Owner: "); err != nil {
		return nil, err
	}
	if b.HealthStatus, err = s.promptDefault(
		fmt.Sprintf("Health status (default %s): ", animals.DefaultHealthStatus),
		animals.DefaultHealthStatus,
	); err != nil {
		return nil, err
	}

	var attrs animals.VariantAttrs
	switch kind {
	case animals.KindDog:
		s.println("Dog size:")
		s.println("1. Small")
		s.println("2. Medium")
		s.println("3. Large")
		v, err := s.prompt("Your choice (1-3): ")
		if err != nil {
			return nil, err
		}
		size, ok := sizeChoices[v]
		if !ok {
			size = animals.DefaultSize
		}
		attrs.Size = &size
	case animals.KindCat:
		v, err := s.prompt("Indoor cat? (yes/no): ")
		if err != nil {
			return nil, err
		}
		v = strings.ToLower(v)
		indoor := v == "yes" || v == "y"
		attrs.Indoor = &indoor
	case animals.KindBird:
		v, err := s.prompt("Wingspan (cm): ")
		if err != nil {
			return nil, err
		}
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &animals.InvalidDataError{Field: "wingspan", Message: fmt.Sprintf("must be a number, got %q", v)}
		}
		attrs.Wingspan = &w
	}

	return s.svc.Register(kind, b, attrs)
}

func (s *Shell) promptKind() (animals.Kind, error) {
	s.println("")
	s.println("Choose the animal type:")
	s.println("1. Dog")
	s.println("2. Cat")
	s.println("3. Bird")
	for {
		v, err := s.prompt("Your choice (1-3): ")
		if err != nil {
			return "", err
		}
		switch v {
		case "1":
			return animals.KindDog, nil
		case "2":
			return animals.KindCat, nil
		case "3":
			return animals.KindBird, nil
		}
		s.println("Please choose 1, 2 or 3")
	}
}
