package model

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxHeaderSize bounds the JSON header so a corrupt length prefix cannot
// trigger a huge allocation.
const maxHeaderSize = 100 * 1024 * 1024

// CheckpointInfo summarizes a validated safetensors file.
type CheckpointInfo struct {
	Path       string
	Size       int64
	HeaderSize int64
	Tensors    int
	DTypes     map[string]int
	Metadata   map[string]string
}

type tensorHeader struct {
	DType       string  `json:"dtype"`
	Shape       []int64 `json:"shape"`
	DataOffsets []int64 `json:"data_offsets"`
}

// inspectCheckpoint reads the safetensors header of path and checks that
// the tensor data exactly fills the rest of the file. A combined file that
// was truncated or padded fails here.
func inspectCheckpoint(path string) (*CheckpointInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat checkpoint: %w", err)
	}

	var headerLen uint64
	if err := binary.Read(f, binary.LittleEndian, &headerLen); err != nil {
		return nil, fmt.Errorf("reading checkpoint header length: %w", err)
	}
	if headerLen == 0 || headerLen > maxHeaderSize || int64(headerLen) > stat.Size()-8 {
		return nil, fmt.Errorf("invalid checkpoint header length %d for a %d byte file", headerLen, stat.Size())
	}

	raw := make([]byte, headerLen)
	if _, err := io.ReadFull(f, raw); err != nil {
		return nil, fmt.Errorf("reading checkpoint header: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing checkpoint header: %w", err)
	}

	info := &CheckpointInfo{
		Path:       path,
		Size:       stat.Size(),
		HeaderSize: int64(headerLen),
		DTypes:     make(map[string]int),
	}

	var dataEnd int64
	for name, entry := range entries {
		if name == "__metadata__" {
			if err := json.Unmarshal(entry, &info.Metadata); err != nil {
				return nil, fmt.Errorf("parsing checkpoint metadata: %w", err)
			}
			continue
		}

		var tensor tensorHeader
		if err := json.Unmarshal(entry, &tensor); err != nil {
			return nil, fmt.Errorf("parsing tensor %s: %w", name, err)
		}
		if len(tensor.DataOffsets) != 2 || tensor.DataOffsets[0] < 0 || tensor.DataOffsets[1] < tensor.DataOffsets[0] {
			return nil, fmt.Errorf("tensor %s has invalid data offsets %v", name, tensor.DataOffsets)
		}

		info.Tensors++
		info.DTypes[tensor.DType]++
		if tensor.DataOffsets[1] > dataEnd {
			dataEnd = tensor.DataOffsets[1]
		}
	}

	if info.Tensors == 0 {
		return nil, fmt.Errorf("checkpoint has no tensors")
	}

	if want := 8 + info.HeaderSize + dataEnd; want != info.Size {
		return nil, fmt.Errorf("checkpoint is %d bytes but its header describes %d bytes; the combined file may be truncated or corrupt", info.Size, want)
	}

	return info, nil
}
