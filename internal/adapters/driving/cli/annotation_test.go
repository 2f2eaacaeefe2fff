package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetAnnotationFlags() {
	annotationType = "oval"
	annotationText = ""
	annotationView = 1
	annotationX = 0.5
	annotationY = 0.5
}

func TestAnnotationCmd_Use(t *testing.T) {
	assert.Equal(t, "annotation", annotationCmd.Use)
}

func TestAnnotationListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "annotation", "list", testKey)

	require.NoError(t, err)
	assert.Contains(t, out, "No annotations")
}

func TestAnnotationAddCmd_AddsSymbol(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetAnnotationFlags()

	out, err := execute(t, "annotation", "add", testKey,
		"--type", "repeat-start", "--view", "3", "--x", "0.1", "--y", "0.9")

	require.NoError(t, err)
	assert.Contains(t, out, "Added repeat-start annotation")
	assert.Contains(t, out, "view 3 (0.10, 0.90)")
}

func TestAnnotationAddCmd_TextRequiresPayload(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetAnnotationFlags()

	_, err := execute(t, "annotation", "add", testKey, "--type", "text")
	assert.Error(t, err)

	out, err := execute(t, "annotation", "add", testKey, "--type", "text", "--text", "D.C. al Fine")
	require.NoError(t, err)
	assert.Contains(t, out, "Added text annotation")
}

func TestAnnotationAddCmd_UnknownType(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetAnnotationFlags()

	_, err := execute(t, "annotation", "add", testKey, "--type", "triangle")

	assert.Error(t, err)
}

func TestAnnotationDeleteCmd_DeletesAnnotation(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	defer resetAnnotationFlags()

	_, err := execute(t, "annotation", "add", testKey)
	require.NoError(t, err)

	annotations, err := annotationService.Load(context.Background(), "sonata.pdf")
	require.NoError(t, err)
	require.Len(t, annotations, 1)

	out, err := execute(t, "annotation", "delete", testKey, annotations[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted annotation")

	out, err = execute(t, "annotation", "list", testKey)
	require.NoError(t, err)
	assert.Contains(t, out, "No annotations")
}
