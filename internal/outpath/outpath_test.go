package outpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/imgproc/internal/imgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, Spec{Mode: Overwrite, Suffix: DefaultSuffix}, Classify("", ""))
	assert.Equal(t, Directory, Classify(dir, "").Mode)
	assert.Equal(t, Directory, Classify(filepath.Join(dir, "new")+"/", "").Mode)
	assert.Equal(t, File, Classify(filepath.Join(dir, "merged.png"), "").Mode)
	assert.Equal(t, "_v2", Classify(dir, "_v2").Suffix)
}

func TestDestination(t *testing.T) {
	tests := []struct {
		name   string
		spec   Spec
		source string
		want   string
	}{
		{"overwrite", Spec{Mode: Overwrite}, "in/photo.jpg", "in/photo.jpg"},
		{"directory", Spec{Mode: Directory, Path: "out", Suffix: DefaultSuffix}, "in/photo.jpg", filepath.Join("out", "photo_edited.jpg")},
		{"directory keeps extension case", Spec{Mode: Directory, Path: "out", Suffix: "_x"}, "a/b.PNG", filepath.Join("out", "b_x.PNG")},
		{"directory with dotted name", Spec{Mode: Directory, Path: "out", Suffix: DefaultSuffix}, "my.photo.jpeg", filepath.Join("out", "my.photo_edited.jpeg")},
		{"directory without extension", Spec{Mode: Directory, Path: "out", Suffix: DefaultSuffix}, "raw", filepath.Join("out", "raw_edited")},
		{"file", Spec{Mode: File, Path: "x/merged.png"}, "in/photo.jpg", "x/merged.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Destination(tt.source))
		})
	}
}

func TestResolve_CreatesDirectories(t *testing.T) {
	root := t.TempDir()

	dirSpec := Classify(filepath.Join(root, "out")+"/", "")
	dest, err := dirSpec.Resolve("photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "out", "photo_edited.jpg"), dest)
	assert.DirExists(t, filepath.Join(root, "out"))
	assert.NoFileExists(t, dest)

	fileSpec := Classify(filepath.Join(root, "a", "b", "result.png"), "")
	dest, err = fileSpec.Resolve("photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b", "result.png"), dest)
	assert.DirExists(t, filepath.Join(root, "a", "b"))
}

func TestResolve_Overwrite(t *testing.T) {
	dest, err := Classify("", "").Resolve("some/where/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "some/where/photo.jpg", dest)
}

func TestResolve_ParentIsFile(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := Spec{Mode: File, Path: filepath.Join(blocker, "out.png")}.Resolve("in.png")
	assert.ErrorIs(t, err, imgerr.ErrWrite)
}

func TestPlan_FileWithManyInputs(t *testing.T) {
	spec := Classify(filepath.Join(t.TempDir(), "merged.png"), "")
	_, err := spec.Plan([]string{"a.png", "b.png"})
	assert.ErrorIs(t, err, imgerr.ErrInvalidParameter)

	plan, err := spec.Plan([]string{"a.png"})
	require.NoError(t, err)
	assert.Equal(t, spec.Path, plan["a.png"])
}

func TestPlan_DuplicateDestinations(t *testing.T) {
	spec := Spec{Mode: Directory, Path: "out", Suffix: DefaultSuffix}
	_, err := spec.Plan([]string{"x/photo.jpg", "y/photo.jpg"})
	assert.ErrorIs(t, err, imgerr.ErrInvalidParameter)

	plan, err := spec.Plan([]string{"x/photo.jpg", "y/photo.png"})
	require.NoError(t, err)
	assert.Len(t, plan, 2)
}

func TestPlan_DestinationIsAnotherInput(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	edited := filepath.Join(dir, "a_edited.png")

	spec := Classify(dir, "")
	require.Equal(t, Directory, spec.Mode)
	_, err := spec.Plan([]string{a, edited})
	assert.ErrorIs(t, err, imgerr.ErrInvalidParameter)
	_, err = spec.Plan([]string{edited, a})
	assert.ErrorIs(t, err, imgerr.ErrInvalidParameter)

	// relative and absolute spellings of the same file
	rel := Spec{Mode: Directory, Path: ".", Suffix: DefaultSuffix}
	_, err = rel.Plan([]string{"a.png", "./a_edited.png"})
	assert.ErrorIs(t, err, imgerr.ErrInvalidParameter)

	plan, err := spec.Plan([]string{a, filepath.Join(dir, "b.png")})
	require.NoError(t, err)
	assert.Equal(t, edited, plan[a])
}

func TestPlan_FileOutputIsItsOwnInput(t *testing.T) {
	src := filepath.Join(t.TempDir(), "photo.png")
	plan, err := Spec{Mode: File, Path: src}.Plan([]string{src})
	require.NoError(t, err)
	assert.Equal(t, src, plan[src])
}

func TestPlan_OverwriteAllowsRepeatedSource(t *testing.T) {
	plan, err := Spec{Mode: Overwrite}.Plan([]string{"a.png", "./a.png", "b.png"})
	require.NoError(t, err)
	assert.Equal(t, "b.png", plan["b.png"])
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "overwrite", Overwrite.String())
	assert.Equal(t, "directory", Directory.String())
	assert.Equal(t, "file", File.String())
	assert.Equal(t, "mode(7)", Mode(7).String())
}
