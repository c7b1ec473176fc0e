package executor

import (
	"context"
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/satishbabariya/db2-go/driver"
)

// ServerVersion runs the service-level query and parses the reported
// version, stripping the vendor prefix ("DB2 v11.5.7.0" -> 11.5.7.0).
func (e *Executor) ServerVersion(ctx context.Context) (*goversion.Version, error) {
	out, err := e.Run(ctx, e.gen.Version(), nil)
	if err != nil {
		return nil, err
	}

	rows, ok := out.([]driver.RawRow)
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("version query returned no rows")
	}

	raw := cellString(rows[0], "version")
	raw = strings.TrimPrefix(raw, "DB2 v")
	v, err := goversion.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server version %q: %w", raw, err)
	}
	return v, nil
}
