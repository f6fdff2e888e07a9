package valuation

import "errors"

var (
	// ErrNotReady is returned when a prediction is requested before the
	// model, scaler, and schema have all been loaded.
	ErrNotReady = errors.New("valuation service not ready")

	// ErrInvalidInput is returned for structurally malformed inputs, most
	// importantly a feature vector whose length does not match the schema.
	ErrInvalidInput = errors.New("invalid valuation input")

	// ErrDataLoad is returned when the historical dataset or model artifact
	// cannot be read at startup. It is fatal: the service must not serve.
	ErrDataLoad = errors.New("valuation data load failure")
)
