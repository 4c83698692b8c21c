package store

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
)

// gobMagic guards against decoding some other gob stream as a table.
const gobMagic = "symtoe-table/1"

type gobFile struct {
	Magic   string
	Records []record
}

func saveGob(path string, records []record) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	enc := gob.NewEncoder(f)
	if err = enc.Encode(gobFile{Magic: gobMagic, Records: records}); err != nil {
		f.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}

func loadGob(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var file gobFile
	dec := gob.NewDecoder(f)
	if err = dec.Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding table")
	}
	if file.Magic != gobMagic {
		return nil, errors.Errorf("not a table file (header %q)", file.Magic)
	}
	return file.Records, nil
}
