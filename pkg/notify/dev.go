package notify

import (
	"context"
	"fmt"
	"io"
	"sort"
)

// DevSender implements Notifier for local development: instead of calling an
// external service it writes the rendered parameter mapping to a writer.
type DevSender struct {
	out io.Writer
}

// NewDevSender creates a development sender writing to out.
func NewDevSender(out io.Writer) *DevSender {
	return &DevSender{out: out}
}

// Send prints the template id and parameters in stable key order.
func (d *DevSender) Send(_ context.Context, templateID string, params Params) error {
	if d.out == nil {
		return nil
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprintf(d.out, "-- notify %s --\n", templateID); err != nil {
		return err
	}
	for _, key := range keys {
		if params[key] == "" {
			continue
		}
		if _, err := fmt.Fprintf(d.out, "%s: %s\n", key, params[key]); err != nil {
			return err
		}
	}
	return nil
}
