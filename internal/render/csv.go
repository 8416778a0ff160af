package render

import (
	"encoding/csv"
	"io"

	"icsevents/internal/model"
)

// CSV writes a header row and one RFC 4180 record per event.
func CSV(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(model.Header); err != nil {
		return err
	}
	for _, e := range events {
		if err := cw.Write(e.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
