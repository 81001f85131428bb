package codec

import "testing"

// TestStructureSetup verifies the basic package structure is correct
func TestStructureSetup(t *testing.T) {
	codec := NewHeaderCodec()
	if codec == nil {
		t.Error("NewHeaderCodec returned nil")
	}

	var h Header = &V1Header{Placement: FixedOffset{StartPixel: 7}}
	if h.Version() != Version1 {
		t.Errorf("Expected version %d, got %d", Version1, h.Version())
	}

	// Magic + HeaderLen + 26 byte payload + CRC
	if MaxFrameSize() != 33 {
		t.Errorf("Expected frame size 33, got %d", MaxFrameSize())
	}

	f, err := NewFrame([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	if f.Size() != PrefixSize+3+CRCSize {
		t.Errorf("Expected size %d, got %d", PrefixSize+3+CRCSize, f.Size())
	}
}
