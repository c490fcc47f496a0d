package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pet-clinic-registry/internal/adapters/storage/file"
	"pet-clinic-registry/internal/domain/animals"
	"pet-clinic-registry/internal/shell"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(Streams{In: strings.NewReader(stdin), Out: &out, ErrOut: &errOut})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeSeeded guarda los animales de demostración en path.
func writeSeeded(t *testing.T, path string) {
	t.Helper()
	svc := animals.NewService(animals.NewRegistry(), nil)
	require.NoError(t, shell.Seed(svc))
	store, err := file.NewStoreForPath(path)
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), store)
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, "petclinic dev (commit: unknown, built: unknown)\n", out)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petclinic.yaml")

	out, err := execute(t, "", "config", "init", path)
	require.NoError(t, err)
	require.Equal(t, "Wrote "+path+"\n", out)

	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "", "config", "init", path)
	require.Error(t, err)
}

func TestConvertAndList(t *testing.T) {
	chdir(t, t.TempDir())
	writeSeeded(t, "clinic.json")

	out, err := execute(t, "", "convert", "clinic.json", "clinic.xml")
	require.NoError(t, err)
	require.Equal(t, "Converted 3 animals: clinic.json -> clinic.xml\n", out)

	out, err = execute(t, "", "list", "clinic.xml")
	require.NoError(t, err)
	require.Contains(t, out, "[Dog] ID: 1, Name: Buddy")
	require.Contains(t, out, "[Cat] ID: 2, Name: Whiskers")
	require.Contains(t, out, "[Bird] ID: 3, Name: Kiwi")
	require.Contains(t, out, "3 animals)")

	out, err = execute(t, "", "list", "clinic.xml", "--owner", "MARY JOHNSON")
	require.NoError(t, err)
	require.Contains(t, out, "Whiskers")
	require.NotContains(t, out, "Buddy")

	out, err = execute(t, "", "list", "clinic.json", "--owner", "nobody")
	require.NoError(t, err)
	require.Contains(t, out, "No animals.")
}

func TestList_Errors(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := execute(t, "", "list", "missing.json")
	require.True(t, animals.IsFileOperation(err), "got %v", err)

	_, err = execute(t, "", "list", "noext")
	require.Error(t, err)
}

func TestDB_RequiresPostgres(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := execute(t, "", "db", "push", "clinic.json")
	require.ErrorContains(t, err, `store must be "postgres" or "sqlite"`)
}

func TestDB_PushPullSQLite(t *testing.T) {
	chdir(t, t.TempDir())
	writeSeeded(t, "clinic.json")

	out, err := execute(t, "", "--store", "sqlite", "db", "push", "clinic.json")
	require.NoError(t, err)
	require.Equal(t, "Transferred 3 animals\n", out)

	out, err = execute(t, "", "--store", "sqlite", "db", "pull", "copy.xml")
	require.NoError(t, err)
	require.Equal(t, "Transferred 3 animals\n", out)

	out, err = execute(t, "", "list", "copy.xml")
	require.NoError(t, err)
	require.Contains(t, out, "[Bird] ID: 3, Name: Kiwi")
}

func TestRoot_UnknownStoreFlag(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := execute(t, "", "--store", "s3", "--no-seed")
	require.Error(t, err)
}

func TestRoot_RunsShell(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := execute(t, "5\n0\n", "--log-level", "off")
	require.NoError(t, err)
	require.Contains(t, out, "Buddy")
	require.Contains(t, out, "Goodbye!")

	out, err = execute(t, "5\n0\n", "--no-seed")
	require.NoError(t, err)
	require.Contains(t, out, "The clinic has no animals.")
}

func TestRoot_MemoryStoreEnablesDatabaseMenu(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := execute(t, "10\n2\n1\n11\n5\n0\n", "--store", "memory")
	require.NoError(t, err)
	require.Contains(t, out, "Saved 3 animals to the database")
	require.Contains(t, out, "Loaded 3 animals from the database")
	require.Contains(t, out, "Buddy")
}
