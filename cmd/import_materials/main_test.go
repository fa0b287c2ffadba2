package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestParseMaterials_Latin1ConExentos(t *testing.T) {
	src := "codigo;nombre;descripcion;unidad;exento\n" +
		"TUB-01;Tubería PVC ½\";Diámetro pequeño;m;N\n" +
		"GUA-02;Guantes;;par;S\n" +
		";Sin código;;;\n" +
		"COR-03;Correa\n"

	rows, err := parseMaterials(bytes.NewReader(latin1(t, src)))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Tubería PVC ½\"", rows[0].Name)
	assert.Equal(t, "Diámetro pequeño", rows[0].Description)
	assert.Equal(t, "M", rows[0].Unit)
	assert.False(t, rows[0].IsExempt)

	assert.True(t, rows[1].IsExempt)
	assert.Equal(t, "PAR", rows[1].Unit)

	assert.Equal(t, "COR-03", rows[2].Code)
	assert.Empty(t, rows[2].Unit)
}

func TestParseMaterials_Vacio(t *testing.T) {
	rows, err := parseMaterials(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
