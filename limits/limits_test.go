package limits

import (
	"errors"
	"testing"
)

// TestValidateTrackSize tests size validation against an explicit limit
func TestValidateTrackSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		max     int64
		wantErr error
	}{
		{
			name:    "empty track",
			size:    0,
			max:     1024,
			wantErr: ErrTrackEmpty,
		},
		{
			name:    "negative size",
			size:    -1,
			max:     1024,
			wantErr: ErrTrackEmpty,
		},
		{
			name:    "valid small track",
			size:    100,
			max:     1024,
			wantErr: nil,
		},
		{
			name:    "valid max-size track",
			size:    1024,
			max:     1024,
			wantErr: nil,
		},
		{
			name:    "track too large",
			size:    1025,
			max:     1024,
			wantErr: ErrTrackTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTrackSize(tt.size, tt.max)
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("ValidateTrackSize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidateRemoteTrack tests the remote payload helper
func TestValidateRemoteTrack(t *testing.T) {
	if err := ValidateRemoteTrack(nil); err != ErrTrackEmpty {
		t.Errorf("ValidateRemoteTrack(nil) = %v, want %v", err, ErrTrackEmpty)
	}
	if err := ValidateRemoteTrack(make([]byte, 16)); err != nil {
		t.Errorf("ValidateRemoteTrack(16 bytes) = %v, want nil", err)
	}
	if err := ValidateRemoteTrack(make([]byte, MaxRemoteTrackBytes+1)); !errors.Is(err, ErrTrackTooLarge) {
		t.Errorf("ValidateRemoteTrack(oversized) = %v, want %v", err, ErrTrackTooLarge)
	}
}

// TestValidateLocalTrack tests the local file helper
func TestValidateLocalTrack(t *testing.T) {
	if err := ValidateLocalTrack(MaxLocalTrackBytes); err != nil {
		t.Errorf("ValidateLocalTrack(max) = %v, want nil", err)
	}
	if err := ValidateLocalTrack(MaxLocalTrackBytes + 1); !errors.Is(err, ErrTrackTooLarge) {
		t.Errorf("ValidateLocalTrack(max+1) = %v, want %v", err, ErrTrackTooLarge)
	}
}

// TestClampTrackLimit verifies configured limits never exceed the processing ceiling
func TestClampTrackLimit(t *testing.T) {
	cases := map[int64]int64{
		0:                       MaxProcessingBuffer,
		-5:                      MaxProcessingBuffer,
		1 << 20:                 1 << 20,
		MaxProcessingBuffer + 1: MaxProcessingBuffer,
	}
	for in, want := range cases {
		if got := ClampTrackLimit(in); got != want {
			t.Errorf("ClampTrackLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

// TestConstantConsistency verifies the limit hierarchy is ordered
func TestConstantConsistency(t *testing.T) {
	if MaxRemoteTrackBytes >= MaxLocalTrackBytes {
		t.Errorf("MaxRemoteTrackBytes (%d) should be < MaxLocalTrackBytes (%d)", MaxRemoteTrackBytes, MaxLocalTrackBytes)
	}
	if MaxLocalTrackBytes >= MaxProcessingBuffer {
		t.Errorf("MaxLocalTrackBytes (%d) should be < MaxProcessingBuffer (%d)", MaxLocalTrackBytes, MaxProcessingBuffer)
	}
	if MaxSegmentSeconds > MaxVideoSeconds {
		t.Errorf("MaxSegmentSeconds (%d) should be <= MaxVideoSeconds (%d)", MaxSegmentSeconds, MaxVideoSeconds)
	}
}

// TestDurationLimits tests segment and timeline duration checks
func TestDurationLimits(t *testing.T) {
	if err := ValidateSegmentDuration(30); err != nil {
		t.Errorf("ValidateSegmentDuration(30) = %v, want nil", err)
	}
	if err := ValidateSegmentDuration(MaxSegmentSeconds + 1); !errors.Is(err, ErrSegmentTooLong) {
		t.Errorf("ValidateSegmentDuration(too long) = %v, want %v", err, ErrSegmentTooLong)
	}
	if err := ValidateVideoDuration(MaxVideoSeconds + 0.5); !errors.Is(err, ErrSegmentTooLong) {
		t.Errorf("ValidateVideoDuration(too long) = %v, want %v", err, ErrSegmentTooLong)
	}
}
