package httputil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smearlab/pixelsort/pkg/httputil"
)

func ExampleCache() {
	// Create a cache with 24-hour TTL in a temp directory
	dir := filepath.Join(os.TempDir(), "pixelsort-example")
	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Store a value
	data := map[string]string{"source": "https://example.com/cat.png", "format": "png"}
	if err := cache.Set("img:https://example.com/cat.png", data); err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Retrieve the value
	var result map[string]string
	if ok, err := cache.Get("img:https://example.com/cat.png", &result); ok && err == nil {
		fmt.Println("Source:", result["source"])
		fmt.Println("Format:", result["format"])
	}

	// Clean up
	os.RemoveAll(dir)
	// Output:
	// Source: https://example.com/cat.png
	// Format: png
}

func ExampleCache_miss() {
	dir := filepath.Join(os.TempDir(), "pixelsort-example-miss")
	cache, _ := httputil.NewCache(dir, time.Hour)
	defer os.RemoveAll(dir)

	// Try to get a non-existent key
	var result string
	ok, err := cache.Get("nonexistent", &result)
	fmt.Println("Found:", ok)
	fmt.Println("Error:", err)
	// Output:
	// Found: false
	// Error: <nil>
}

func ExampleNewCache_defaultDir() {
	// Pass empty string to use default directory (~/.cache/pixelsort/)
	cache, err := httputil.NewCache("", 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Cache TTL:", cache.TTL())
	// Output:
	// Cache TTL: 24h0m0s
}
