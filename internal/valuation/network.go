package valuation

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// NetworkArtifact is the persisted form of the trained feedforward regression
// network: layer sizes plus row-major weight matrices and bias vectors,
// exported by the offline training pipeline.
type NetworkArtifact struct {
	Version      string      `json:"version"`
	InputSize    int         `json:"input_size"`
	HiddenLayers []int       `json:"hidden_layers"`
	Weights      [][]float64 `json:"weights"`
	Biases       [][]float64 `json:"biases"`
}

// Network is a gorgonia-backed feedforward regression model restored from a
// NetworkArtifact. Hidden layers use ReLU, the output layer is linear.
//
// The tape machine mutates per run, so Predict serializes on a mutex; the
// loaded weights themselves never change.
type Network struct {
	mu        sync.Mutex
	graph     *gorgonia.ExprGraph
	inputNode *gorgonia.Node
	outNode   *gorgonia.Node
	machine   gorgonia.VM
	inputSize int
}

// LoadNetwork reads a serialized model artifact and rebuilds the computation
// graph with the stored weights.
func LoadNetwork(path string) (*Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read model artifact: %v", ErrDataLoad, err)
	}

	var artifact NetworkArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("%w: decode model artifact: %v", ErrDataLoad, err)
	}

	return NewNetwork(&artifact)
}

// NewNetwork builds the inference graph from an artifact.
func NewNetwork(artifact *NetworkArtifact) (*Network, error) {
	if artifact.InputSize <= 0 {
		return nil, fmt.Errorf("%w: model artifact has input size %d", ErrDataLoad, artifact.InputSize)
	}
	layerCount := len(artifact.HiddenLayers) + 1
	if len(artifact.Weights) != layerCount || len(artifact.Biases) != layerCount {
		return nil, fmt.Errorf("%w: model artifact has %d weight and %d bias layers, want %d", ErrDataLoad, len(artifact.Weights), len(artifact.Biases), layerCount)
	}

	// Layer widths: input -> hidden... -> 1 scalar output.
	sizes := make([]int, 0, layerCount+1)
	sizes = append(sizes, artifact.InputSize)
	sizes = append(sizes, artifact.HiddenLayers...)
	sizes = append(sizes, 1)

	g := gorgonia.NewGraph()
	inputNode := gorgonia.NewMatrix(g, tensor.Float64,
		gorgonia.WithShape(1, artifact.InputSize),
		gorgonia.WithName("input"))

	currentNode := inputNode
	for layer := 0; layer < layerCount; layer++ {
		in, out := sizes[layer], sizes[layer+1]
		if len(artifact.Weights[layer]) != in*out {
			return nil, fmt.Errorf("%w: layer %d weights have %d values, want %d", ErrDataLoad, layer, len(artifact.Weights[layer]), in*out)
		}
		if len(artifact.Biases[layer]) != out {
			return nil, fmt.Errorf("%w: layer %d biases have %d values, want %d", ErrDataLoad, layer, len(artifact.Biases[layer]), out)
		}

		weight := gorgonia.NewMatrix(g, tensor.Float64,
			gorgonia.WithShape(in, out),
			gorgonia.WithName(fmt.Sprintf("w%d", layer)),
			gorgonia.WithValue(tensor.New(
				tensor.WithShape(in, out),
				tensor.WithBacking(artifact.Weights[layer]))))

		// Batch size is pinned at 1, so the bias can be a (1, out) matrix
		// and added directly without broadcasting.
		bias := gorgonia.NewMatrix(g, tensor.Float64,
			gorgonia.WithShape(1, out),
			gorgonia.WithName(fmt.Sprintf("b%d", layer)),
			gorgonia.WithValue(tensor.New(
				tensor.WithShape(1, out),
				tensor.WithBacking(artifact.Biases[layer]))))

		linear, err := gorgonia.Mul(currentNode, weight)
		if err != nil {
			return nil, fmt.Errorf("%w: build layer %d: %v", ErrDataLoad, layer, err)
		}
		withBias, err := gorgonia.Add(linear, bias)
		if err != nil {
			return nil, fmt.Errorf("%w: build layer %d bias: %v", ErrDataLoad, layer, err)
		}

		if layer < layerCount-1 {
			currentNode, err = gorgonia.Rectify(withBias)
			if err != nil {
				return nil, fmt.Errorf("%w: build layer %d activation: %v", ErrDataLoad, layer, err)
			}
		} else {
			currentNode = withBias
		}
	}

	return &Network{
		graph:     g,
		inputNode: inputNode,
		outNode:   currentNode,
		machine:   gorgonia.NewTapeMachine(g),
		inputSize: artifact.InputSize,
	}, nil
}

// InputSize returns the feature width the network was trained on.
func (n *Network) InputSize() int {
	return n.inputSize
}

// Predict runs one forward pass and returns the scalar prediction.
func (n *Network) Predict(vector []float64) (float64, error) {
	if len(vector) != n.inputSize {
		return 0, fmt.Errorf("%w: vector length %d does not match model input size %d", ErrInvalidInput, len(vector), n.inputSize)
	}

	backing := make([]float64, len(vector))
	copy(backing, vector)
	input := tensor.New(tensor.WithShape(1, n.inputSize), tensor.WithBacking(backing))

	n.mu.Lock()
	defer n.mu.Unlock()

	if err := gorgonia.Let(n.inputNode, input); err != nil {
		return 0, fmt.Errorf("set model input: %w", err)
	}
	if err := n.machine.RunAll(); err != nil {
		return 0, fmt.Errorf("model forward pass: %w", err)
	}
	defer n.machine.Reset()

	switch out := n.outNode.Value().Data().(type) {
	case []float64:
		return out[0], nil
	case float64:
		return out, nil
	default:
		return 0, fmt.Errorf("unexpected model output type %T", out)
	}
}
