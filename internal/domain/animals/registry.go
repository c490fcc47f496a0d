package animals

import (
	"fmt"
	"strings"
)

// Registry guarda los animales en orden de inserción con un índice por id.
// No es seguro para uso concurrente: tiene un único dueño.
type Registry struct {
	items  []Animal
	byID   map[int]int // id -> posición en items
	nextID int
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[int]int),
		nextID: 1,
	}
}

// Add no toca nextID: los ids explícitos los decide quien llama.
func (r *Registry) Add(a Animal) error {
	if err := validate(a); err != nil {
		return err
	}
	id := a.Info().ID
	if _, exists := r.byID[id]; exists {
		return &DuplicateIDError{ID: id}
	}
	r.byID[id] = len(r.items)
	r.items = append(r.items, a)
	return nil
}

func (r *Registry) Remove(id int) error {
	pos, ok := r.byID[id]
	if !ok {
		return &NotFoundError{ID: id}
	}

	r.items = append(r.items[:pos], r.items[pos+1:]...)
	delete(r.byID, id)
	for i := pos; i < len(r.items); i++ {
		r.byID[r.items[i].Info().ID] = i
	}
	return nil
}

func (r *Registry) FindByID(id int) (Animal, bool) {
	pos, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.items[pos], true
}

// FindByOwner compara el dueño sin distinguir mayúsculas.
func (r *Registry) FindByOwner(owner string) []Animal {
	out := make([]Animal, 0)
	for _, a := range r.items {
		if strings.EqualFold(a.Info().Owner, owner) {
			out = append(out, a)
		}
	}
	return out
}

// ListAll devuelve una copia; modificarla no afecta al registro.
func (r *Registry) ListAll() []Animal {
	out := make([]Animal, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Registry) Len() int { return len(r.items) }

// LoadSnapshot reemplaza todo el contenido o nada.
// Ids repetidos dentro del snapshot lo rechazan sin tocar el estado actual.
func (r *Registry) LoadSnapshot(list []Animal) error {
	items := make([]Animal, 0, len(list))
	byID := make(map[int]int, len(list))
	maxID := 0

	for i, a := range list {
		if err := validate(a); err != nil {
			return fmt.Errorf("animal #%d: %w", i+1, err)
		}
		id := a.Info().ID
		if _, exists := byID[id]; exists {
			return &DuplicateIDError{ID: id}
		}
		byID[id] = len(items)
		items = append(items, a)
		if id > maxID {
			maxID = id
		}
	}

	r.items = items
	r.byID = byID
	r.nextID = maxID + 1
	return nil
}

// NextID entrega el siguiente id del contador y lo avanza.
func (r *Registry) NextID() int {
	id := r.nextID
	r.nextID++
	return id
}
