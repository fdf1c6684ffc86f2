package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/customers-api/internal/application/dto"
)

// row fila del CSV con su número de línea para reportar errores.
type row struct {
	line int
	in   dto.CreateCustomerRequest
}

// decoder devuelve un lector que convierte a UTF-8 desde el charset indicado.
func decoder(charset string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		// quita el BOM si lo hay (exportaciones de Excel)
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
}

// readRows lee el CSV con cabecera first_name,last_name[,email]. El orden de columnas es libre.
func readRows(r io.Reader) ([]row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("archivo vacío")
		}
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"first_name", "last_name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("falta la columna %s", required)
		}
	}

	field := func(rec []string, name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return rec[i], true
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError ya trae la línea
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		first, _ := field(rec, "first_name")
		last, _ := field(rec, "last_name")
		in := dto.CreateCustomerRequest{FirstName: first, LastName: last}
		if email, ok := field(rec, "email"); ok && strings.TrimSpace(email) != "" {
			in.Email = &email
		}
		rows = append(rows, row{line: line, in: in})
	}
	return rows, nil
}
