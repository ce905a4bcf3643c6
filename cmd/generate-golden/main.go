package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenData represents a single test case in the golden file. Operands and
// product are numerals in Base.
type GoldenData struct {
	X       string `json:"x"`
	Y       string `json:"y"`
	Base    int    `json:"base"`
	Product string `json:"product"`
}

func main() {
	outputDir := flag.String("out", "internal/multiplier/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "products_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// Decimal operand pairs:
	// - zero and one
	// - values with carries in every column
	// - values around word boundaries
	// - long operands of unequal length
	pairs := [][2]string{
		{"0", "0"},
		{"0", "55"},
		{"1", "1"},
		{"7", "3"},
		{"99", "99"},
		{"1024", "16"},
		{"12345", "6789"},
		{"65535", "65535"},
		{"4294967295", "4294967295"},
		{"18446744073709551615", "18446744073709551615"},
		{"999999999999999999999999999999", "100000000000000000007"},
		{"123456789012345678901234567890", "987654321098765432109876543210"},
		{"31415926535897932384626433832795028841971693993751", "27182818284590452353602874713527"},
	}
	bases := []int{2, 8, 10, 16, 36}

	var data []GoldenData

	fmt.Println("Generating golden data...")

	for _, base := range bases {
		for _, p := range pairs {
			x, _ := new(big.Int).SetString(p[0], 10)
			y, _ := new(big.Int).SetString(p[1], 10)
			product := new(big.Int).Mul(x, y)
			data = append(data, GoldenData{
				X:       x.Text(base),
				Y:       y.Text(base),
				Base:    base,
				Product: product.Text(base),
			})
		}
		fmt.Printf("Generated base %d\n", base)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}
