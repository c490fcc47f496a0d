package shell

import "pet-clinic-registry/internal/domain/animals"

// Seed carga los tres animales de demostración con ids 1, 2 y 3.
func Seed(svc *animals.Service) error {
	dog, err := animals.NewDog(animals.Base{ID: 1, Name: "Buddy", Age: 3, Breed: "Labrador", Owner: "John Smith", HealthStatus: "Healthy"}, animals.SizeLarge)
	if err != nil {
		return err
	}
	cat, err := animals.NewCat(animals.Base{ID: 2, Name: "Whiskers", Age: 2, Breed: "Siamese", Owner: "Mary Johnson", HealthStatus: "Healthy"}, true)
	if err != nil {
		return err
	}
	bird, err := animals.NewBird(animals.Base{ID: 3, Name: "Kiwi", Age: 1, Breed: "Parrot", Owner: "Alex Brown", HealthStatus: "Healthy"}, 15.5)
	if err != nil {
		return err
	}

	for _, a := range []animals.Animal{dog, cat, bird} {
		if err := svc.Add(a); err != nil {
			return err
		}
	}
	return nil
}
