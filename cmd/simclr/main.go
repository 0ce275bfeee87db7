// Command simclr builds the ConvNet model and runs a forward pass over a
// synthetic batch, printing the architecture and the resulting output shape.
// Training lives in the surrounding framework; this is a smoke-test harness
// for the model definition itself.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sstilz/simclr/internal/backend/cpu"
	"github.com/sstilz/simclr/internal/tensor"
	"github.com/sstilz/simclr/models"
)

const version = "v0.1.0"

func main() {
	channels := flag.Int("channels", 1, "Input channels (1 = grayscale)")
	width := flag.Int("width", 28, "Input image width (inputs are square)")
	classes := flag.Int("classes", 10, "Number of output classes")
	batch := flag.Int("batch", 8, "Synthetic batch size")
	dropout := flag.Float64("dropout", 0.0, "Dropout rate in [0, 1)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("simclr %s\n", version)
		return
	}

	backend := cpu.New()

	net, err := models.NewConvNet(tensor.Shape{*channels, *width, *width}, *classes, *dropout, backend)
	if err != nil {
		log.Fatalf("failed to build model: %v", err)
	}

	fmt.Println(net)
	fmt.Printf("flattened conv features: %d\n", net.FlattenedConvFeatures())
	fmt.Printf("trainable parameters: %d tensors\n", len(net.Parameters()))

	input := tensor.Randn[float32](tensor.Shape{*batch, *channels, *width, *width}, backend)
	net.Eval()
	output := net.Forward(input)

	fmt.Printf("forward: %v -> %v\n", input.Shape(), output.Shape())
}
