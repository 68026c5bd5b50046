package vo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_EncodeDecode_AllTypes(t *testing.T) {
	jobs := []Job{
		&DownloadVideoJob{OriginalVideoID: 11, VideoIDs: []uint64{101, 102}},
		&CutVideoJob{VideoID: 101, RawFilePath: "/tmp/source_11.mp4", Format: "mp4"},
		&RawUploadedJob{VideoID: 101, VideoURI: "videos/101/raw.mp4"},
		&TranscriptionReadyJob{VideoID: 101},
		&TranslationReadyJob{VideoID: 101},
		&ProcessedUploadedJob{VideoID: 101},
	}

	for _, in := range jobs {
		body, err := EncodeJob(in)
		require.NoError(t, err, "encode %s", in.Type())

		out, err := DecodeJob(body)
		require.NoError(t, err, "decode %s", in.Type())
		assert.Equal(t, in.Type(), out.Type())
		assert.Equal(t, in.Weight(), out.Weight())
		assert.Equal(t, in, out)
	}
}

func TestJob_Weight_Routing(t *testing.T) {
	assert.Equal(t, WeightHeavy, CutVideoJob{}.Weight())
	assert.Equal(t, WeightHeavy, TranslationReadyJob{}.Weight())

	assert.Equal(t, WeightLight, DownloadVideoJob{}.Weight())
	assert.Equal(t, WeightLight, RawUploadedJob{}.Weight())
	assert.Equal(t, WeightLight, TranscriptionReadyJob{}.Weight())
	assert.Equal(t, WeightLight, ProcessedUploadedJob{}.Weight())
}

func TestDecodeJob_Malformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "not-json"},
		{"missing payload", `{"type":"cut_video"}`},
		{"unknown type", `{"type":"defrost_video","payload":{}}`},
		{"payload type mismatch", `{"type":"cut_video","payload":{"video_id":"abc"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job, err := DecodeJob([]byte(tc.body))
			require.Error(t, err)
			assert.Nil(t, job)
			assert.True(t, IsDecodeError(err))
			assert.False(t, IsRetrievable(err))
		})
	}
}

func TestEncodeJob_Nil(t *testing.T) {
	body, err := EncodeJob(nil)
	require.Error(t, err)
	assert.Nil(t, body)
}
