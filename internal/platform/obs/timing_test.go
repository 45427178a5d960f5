package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestTimeLogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := WithRequestID(log.WithContext(context.Background()), "abc-123")

	var err error
	Time(ctx, "nominatim.Geocode")(&err)
	assert.Contains(t, buf.String(), `"op":"nominatim.Geocode"`)
	assert.Contains(t, buf.String(), `"req_id":"abc-123"`)

	buf.Reset()
	err = errors.New("boom")
	Time(ctx, "osrm.Route")(&err)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestRequestIDMissing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}
