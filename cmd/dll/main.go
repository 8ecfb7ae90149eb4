// Package main provides C-compatible exports for the docview library.
// Build with: go build -buildmode=c-shared -o docview.dll
package main

/*
#include <stdlib.h>
#include <stdint.h>

// Result structure for operations that return data
typedef struct {
    char* data;
    int   data_len;
    char* error;
} DocviewResult;
*/
import "C"

import (
	"bytes"
	"encoding/json"
	"unsafe"

	docview "github.com/logicossoftware/go-docview"
)

func main() {}

// DocviewBundleVersion returns the bundle format version supported by this library.
//
//export DocviewBundleVersion
func DocviewBundleVersion() C.uint16_t {
	return C.uint16_t(docview.VersionV1)
}

// DocviewFreeResult frees memory allocated by other Docview functions.
// Must be called to avoid memory leaks.
//
//export DocviewFreeResult
func DocviewFreeResult(result C.DocviewResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

func makeResult(data []byte) C.DocviewResult {
	var result C.DocviewResult
	if len(data) > 0 {
		result.data = (*C.char)(C.CBytes(data))
		result.data_len = C.int(len(data))
	}
	return result
}

func makeError(err error) C.DocviewResult {
	var result C.DocviewResult
	result.error = C.CString(err.Error())
	return result
}

// DocviewParse parses a docview attribute value and returns the property as
// JSON: {"name", "type", "multi", "reference", "values"}.
// Call DocviewFreeResult when done.
//
//export DocviewParse
func DocviewParse(name *C.char, value *C.char) C.DocviewResult {
	p, err := docview.Parse(C.GoString(name), C.GoString(value))
	if err != nil {
		return makeError(err)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return makeError(err)
	}
	return makeResult(b)
}

// DocviewFormat takes a property in the JSON form returned by DocviewParse
// and returns its docview attribute value.
// Call DocviewFreeResult when done.
//
//export DocviewFormat
func DocviewFormat(propertyJSON *C.char) C.DocviewResult {
	var p docview.Property
	if err := json.Unmarshal([]byte(C.GoString(propertyJSON)), &p); err != nil {
		return makeError(err)
	}
	return makeResult([]byte(p.FormatValue()))
}

// DocviewEncodeBundle encodes {"path", "properties": [...]} JSON into a bundle.
// compression: 0=None, 1=ZIP, 2=ZSTD, 3=LZ4, 4=Brotli.
// Call DocviewFreeResult when done.
//
//export DocviewEncodeBundle
func DocviewEncodeBundle(bundleJSON *C.char, compression C.uint16_t) C.DocviewResult {
	var in struct {
		Path       string              `json:"path"`
		Properties []*docview.Property `json:"properties"`
	}
	if err := json.Unmarshal([]byte(C.GoString(bundleJSON)), &in); err != nil {
		return makeError(err)
	}
	var buf bytes.Buffer
	b := &docview.Bundle{Path: in.Path, Properties: in.Properties}
	if err := docview.EncodeBundle(&buf, b, docview.WithCompression(docview.Compression(compression))); err != nil {
		return makeError(err)
	}
	return makeResult(buf.Bytes())
}

// DocviewDecodeBundle decodes a bundle and returns it as JSON.
// Call DocviewFreeResult when done.
//
//export DocviewDecodeBundle
func DocviewDecodeBundle(data *C.char, dataLen C.int) C.DocviewResult {
	goData := C.GoBytes(unsafe.Pointer(data), dataLen)
	b, err := docview.DecodeBundle(bytes.NewReader(goData))
	if err != nil {
		return makeError(err)
	}
	out, err := json.Marshal(map[string]any{
		"path":       b.Path,
		"properties": b.Properties,
	})
	if err != nil {
		return makeError(err)
	}
	return makeResult(out)
}

// DocviewGetPropertyCount returns the number of properties in a bundle.
// Returns -1 on error.
//
//export DocviewGetPropertyCount
func DocviewGetPropertyCount(data *C.char, dataLen C.int) C.int {
	goData := C.GoBytes(unsafe.Pointer(data), dataLen)
	b, err := docview.DecodeBundle(bytes.NewReader(goData))
	if err != nil {
		return -1
	}
	return C.int(len(b.Properties))
}
