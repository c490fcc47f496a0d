// Package shell es el menú interactivo por líneas sobre el servicio de animales.
// Cada error se muestra y el loop sigue; solo "0" o fin de entrada lo terminan.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pet-clinic-registry/internal/adapters/codec"
	"pet-clinic-registry/internal/adapters/storage/file"
	"pet-clinic-registry/internal/domain/animals"
)

var errQuit = errors.New("quit")

// StoreFunc abre el store de archivo para un path y formato ("json" o "xml").
type StoreFunc func(path, format string) (animals.SnapshotStore, error)

type Options struct {
	// Archivos por defecto de las opciones guardar/cargar.
	DefaultJSON string
	DefaultXML  string
	// DB es opcional: si viene, el menú agrega guardar/cargar en base de datos.
	DB animals.SnapshotStore
	// OpenStore por defecto usa file.NewStore con el codec del formato.
	OpenStore StoreFunc
}

type Shell struct {
	in   *bufio.Scanner
	out  io.Writer
	svc  *animals.Service
	opts Options
}

func New(in io.Reader, out io.Writer, svc *animals.Service, opts Options) *Shell {
	if opts.DefaultJSON == "" {
		opts.DefaultJSON = "animals.json"
	}
	if opts.DefaultXML == "" {
		opts.DefaultXML = "animals.xml"
	}
	if opts.OpenStore == nil {
		opts.OpenStore = openFileStore
	}
	return &Shell{
		in:   bufio.NewScanner(in),
		out:  out,
		svc:  svc,
		opts: opts,
	}
}

func openFileStore(path, format string) (animals.SnapshotStore, error) {
	c, err := codec.ByName(format)
	if err != nil {
		return nil, err
	}
	return file.NewStore(path, c), nil
}

// Run procesa opciones hasta "0" o EOF.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.menu()
		choice, err := s.prompt("Choose an action: ")
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case "1":
			err = s.addAnimal()
		case "2":
			err = s.removeAnimal()
		case "3":
			err = s.findByID()
		case "4":
			err = s.findByOwner()
		case "5":
			s.listAll()
		case "6":
			err = s.saveFile(ctx, "json", s.opts.DefaultJSON)
		case "7":
			err = s.loadFile(ctx, "json", s.opts.DefaultJSON)
		case "8":
			err = s.saveFile(ctx, "xml", s.opts.DefaultXML)
		case "9":
			err = s.loadFile(ctx, "xml", s.opts.DefaultXML)
		case "10", "11":
			if s.opts.DB == nil {
				s.println("Invalid choice. Please pick an action from the menu.")
				continue
			}
			if choice == "10" {
				err = s.saveDB(ctx)
			} else {
				err = s.loadDB(ctx)
			}
		case "0":
			s.println("Goodbye!")
			return nil
		default:
			s.println("Invalid choice. Please pick an action from the menu.")
		}

		if err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
				return s.finish(err)
			}
			s.printf("Error: %v\n", err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		s.println("")
		s.println("Input closed. Goodbye!")
		return nil
	}
	return err
}

func (s *Shell) menu() {
	line := strings.Repeat("=", 50)
	s.println("")
	s.println(line)
	s.println("         PET CLINIC REGISTRY")
	s.println(line)
	s.println("1. Add animal")
	s.println("2. Remove animal")
	s.println("3. Find animal by ID")
	s.println("4. Find animals by owner")
	s.println("5. Show all animals")
	s.println("6. Save to JSON")
	s.println("7. Load from JSON")
	s.println("8. Save to XML")
	s.println("9. Load from XML")
	if s.opts.DB != nil {
		s.println("10. Save to database")
		s.println("11. Load from database")
	}
	s.println("0. Exit")
	s.println(line)
}

func (s *Shell) removeAnimal() error {
	id, err := s.promptInt("Animal ID to remove: ", "animal_id")
	if err != nil {
		return err
	}
	a, _ := s.svc.FindByID(id)
	if err := s.svc.Remove(id); err != nil {
		return err
	}
	s.printf("Animal %s removed!\n", a.Info().Name)
	return nil
}

func (s *Shell) findByID() error {
	id, err := s.promptInt("Animal ID: ", "animal_id")
	if err != nil {
		return err
	}
	a, ok := s.svc.FindByID(id)
	if !ok {
		s.println("No animal with that ID.")
		return nil
	}
	s.println("")
	s.println("Animal found:")
	s.println(animals.Describe(a))
	s.printf("Sound: %s\n", animals.Sound(a))
	return nil
}

func (s *Shell) findByOwner() error {
	owner, err := s.prompt("Owner name: ")
	if err != nil {
		return err
	}
	found := s.svc.FindByOwner(owner)
	if len(found) == 0 {
		s.printf("No animals found for owner %s.\n", owner)
		return nil
	}
	s.printf("\nAnimals found for owner %s: %d\n", owner, len(found))
	for _, a := range found {
		s.println(animals.Describe(a))
	}
	return nil
}

func (s *Shell) listAll() {
	all := s.svc.List()
	if len(all) == 0 {
		s.println("The clinic has no animals.")
		return
	}
	s.println("")
	s.println("--- All animals in the clinic ---")
	for _, a := range all {
		s.println(animals.Describe(a))
		s.printf("Sound: %s\n", animals.Sound(a))
		s.println(strings.Repeat("-", 50))
	}
}

func (s *Shell) saveFile(ctx context.Context, format, def string) error {
	path, err := s.promptDefault(fmt.Sprintf("File name (default %s): ", def), def)
	if err != nil {
		return err
	}
	store, err := s.opts.OpenStore(path, format)
	if err != nil {
		return err
	}
	if _, err := s.svc.Save(ctx, store); err != nil {
		return err
	}
	s.printf("Data saved to %s\n", path)
	return nil
}

func (s *Shell) loadFile(ctx context.Context, format, def string) error {
	path, err := s.promptDefault(fmt.Sprintf("File name (default %s): ", def), def)
	if err != nil {
		return err
	}
	store, err := s.opts.OpenStore(path, format)
	if err != nil {
		return err
	}
	if _, err := s.svc.Load(ctx, store); err != nil {
		return err
	}
	s.printf("Data loaded from %s\n", path)
	return nil
}

func (s *Shell) saveDB(ctx context.Context) error {
	snap, err := s.svc.Save(ctx, s.opts.DB)
	if err != nil {
		return err
	}
	s.printf("Saved %d animals to the database\n", snap.Metadata.TotalAnimals)
	return nil
}

func (s *Shell) loadDB(ctx context.Context) error {
	snap, err := s.svc.Load(ctx, s.opts.DB)
	if err != nil {
		return err
	}
	s.printf("Loaded %d animals from the database\n", len(snap.Animals))
	return nil
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) promptDefault(label, def string) (string, error) {
	v, err := s.prompt(label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

// promptInt convierte a entero; un texto no numérico es dato inválido del campo.
func (s *Shell) promptInt(label, field string) (int, error) {
	v, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &animals.InvalidDataError{Field: field, Message: fmt.Sprintf("must be an integer, got %q", v)}
	}
	return n, nil
}

func (s *Shell) println(line string) { fmt.Fprintln(s.out, line) }

func (s *Shell) printf(format string, args ...any) { fmt.Fprintf(s.out, format, args...) }
