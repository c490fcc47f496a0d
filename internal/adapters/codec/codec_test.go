package codec

import (
	"testing"
	"time"

	"pet-clinic-registry/internal/domain/animals"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var codecs = []animals.Codec{JSON{}, XML{}}

func sampleSnapshot(t *testing.T) animals.Snapshot {
	t.Helper()
	dog, err := animals.NewDog(animals.Base{ID: 1, Name: "Rex", Age: 3, Breed: "Lab", Owner: "Ann"}, animals.SizeLarge)
	require.NoError(t, err)
	cat, err := animals.NewCat(animals.Base{ID: 2, Name: "Tom", Age: 5, Breed: "Siamese", Owner: "Bob", HealthStatus: "Sick"}, false)
	require.NoError(t, err)
	bird, err := animals.NewBird(animals.Base{ID: 3, Name: "Kiwi", Age: 1, Breed: "Parrot", Owner: "Al & Co <x>"}, 0)
	require.NoError(t, err)

	return animals.Snapshot{
		Metadata: animals.Metadata{
			SavedAt:      time.Date(2025, 12, 22, 10, 30, 0, 0, time.UTC),
			TotalAnimals: 3,
			SnapshotID:   "2b1f0c1e-0000-4000-8000-000000000001",
		},
		Animals: []animals.Animal{dog, cat, bird},
	}
}

func TestByName(t *testing.T) {
	c, err := ByName("JSON")
	require.NoError(t, err)
	require.Equal(t, NameJSON, c.Name())

	c, err = ByName(" xml ")
	require.NoError(t, err)
	require.Equal(t, NameXML, c.Name())

	_, err = ByName("yaml")
	require.Error(t, err)
}

func TestRoundTrip_Sample(t *testing.T) {
	want := sampleSnapshot(t)
	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Encode(want)
			require.NoError(t, err)

			got, err := c.Decode(data)
			require.NoError(t, err)
			require.Equal(t, want.Animals, got.Animals)
			require.True(t, want.Metadata.SavedAt.Equal(got.Metadata.SavedAt))
			require.Equal(t, want.Metadata.TotalAnimals, got.Metadata.TotalAnimals)
			require.Equal(t, want.Metadata.SnapshotID, got.Metadata.SnapshotID)
		})
	}
}

func TestRoundTrip_EmptyRegistry(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Encode(animals.Snapshot{})
			require.NoError(t, err)

			got, err := c.Decode(data)
			require.NoError(t, err)
			require.Empty(t, got.Animals)
		})
	}
}

func TestFormatReal(t *testing.T) {
	cases := map[float64]string{
		0:       "0.0",
		15.5:    "15.5",
		2:       "2.0",
		-3:      "-3.0",
		0.25:    "0.25",
		1e20:    "1e+20",
		1.5e-07: "1.5e-07",
	}
	for in, want := range cases {
		require.Equal(t, want, formatReal(in), "formatReal(%v)", in)
	}
}

// anyText incluye bytes sueltos y caracteres de control; los constructores deciden.
var anyText = rapid.OneOf(
	rapid.String(),
	rapid.StringMatching(`[A-Za-z0-9&<>'" áéñ.-]{0,12}[A-Za-z0-9]`),
	rapid.Map(rapid.SliceOf(rapid.Byte()), func(b []byte) string { return string(b) }),
)

// genAnimal devuelve nil si el constructor rechazó los datos generados.
func genAnimal(t *rapid.T, id int) animals.Animal {
	b := animals.Base{
		ID:           id,
		Name:         anyText.Draw(t, "name"),
		Age:          rapid.IntRange(1, 40).Draw(t, "age"),
		Breed:        anyText.Draw(t, "breed"),
		Owner:        anyText.Draw(t, "owner"),
		HealthStatus: anyText.Draw(t, "health"),
	}

	var (
		a   animals.Animal
		err error
	)
	switch rapid.IntRange(0, 2).Draw(t, "kind") {
	case 0:
		size := rapid.SampledFrom([]animals.Size{animals.SizeSmall, animals.SizeMedium, animals.SizeLarge}).Draw(t, "size")
		a, err = animals.NewDog(b, size)
	case 1:
		a, err = animals.NewCat(b, rapid.Bool().Draw(t, "indoor"))
	default:
		a, err = animals.NewBird(b, rapid.Float64Range(0, 1e6).Draw(t, "wingspan"))
	}
	if err != nil {
		if !animals.IsInvalidData(err) {
			t.Fatalf("constructor returned %v", err)
		}
		return nil
	}
	return a
}

func TestRoundTrip_Property(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			rapid.Check(t, func(rt *rapid.T) {
				n := rapid.IntRange(0, 8).Draw(rt, "n")
				snap := animals.Snapshot{}
				for i := 0; i < n; i++ {
					if a := genAnimal(rt, i+1); a != nil {
						snap.Animals = append(snap.Animals, a)
					}
				}
				n = len(snap.Animals)
				snap.Metadata.TotalAnimals = n

				data, err := c.Encode(snap)
				if err != nil {
					rt.Fatalf("encode: %v", err)
				}
				got, err := c.Decode(data)
				if err != nil {
					rt.Fatalf("decode: %v\n%s", err, data)
				}
				if len(got.Animals) != n {
					rt.Fatalf("expected %d animals, got %d", n, len(got.Animals))
				}
				for i := range snap.Animals {
					if snap.Animals[i] != got.Animals[i] {
						rt.Fatalf("animal %d differs:\nwant %#v\ngot  %#v", i, snap.Animals[i], got.Animals[i])
					}
				}
			})
		})
	}
}
