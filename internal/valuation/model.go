package valuation

// Predictor is the serving-time contract of the trained regression model:
// a standardized, schema-ordered feature vector in, predicted points-per-season
// (PPR scoring) out. Implementations must treat prediction as a pure function
// of the input; no online learning, no per-call state visible to callers.
//
// Keeping this an interface lets any regression backend satisfy the contract
// and lets tests substitute a deterministic stub.
type Predictor interface {
	Predict(vector []float64) (float64, error)
	// InputSize returns the fixed feature width the model was trained on.
	InputSize() int
}
