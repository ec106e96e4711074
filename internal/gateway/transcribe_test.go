package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpeechClient_Transcribe(t *testing.T) {
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"transcription":"spoken words"}`))
	}))
	defer srv.Close()

	c := NewSpeechClient(srv.URL, "tok", time.Second)
	text, err := c.Transcribe(context.Background(), []byte("audio-bytes"))
	require.NoError(t, err)
	require.Equal(t, "spoken words", text)
	require.Equal(t, "audio-bytes", string(received))
}

func TestSpeechClient_TextFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"alt field"}`))
	}))
	defer srv.Close()

	c := NewSpeechClient(srv.URL, "", time.Second)
	text, err := c.Transcribe(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "alt field", text)
}

func TestSpeechClient_Errors(t *testing.T) {
	c := NewSpeechClient("", "", time.Second)
	_, err := c.Transcribe(context.Background(), nil)
	require.Error(t, err)
	require.Equal(t, KindAdapterFailure, KindOf(err))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c = NewSpeechClient(srv.URL, "", time.Second)
	_, err = c.Transcribe(context.Background(), nil)
	require.Error(t, err)
	require.Equal(t, KindAdapterFailure, KindOf(err))

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer empty.Close()
	c = NewSpeechClient(empty.URL, "", time.Second)
	_, err = c.Transcribe(context.Background(), nil)
	require.Error(t, err)
}

func TestTranscribeFile_MissingAudio(t *testing.T) {
	c := NewSpeechClient("http://unused", "", time.Second)
	_, err := TranscribeFile(context.Background(), c, filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestTranscribeFile_ReadsAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transcription":"ok"}`))
	}))
	defer srv.Close()

	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("riff"), 0o644))

	text, err := TranscribeFile(context.Background(), NewSpeechClient(srv.URL, "", time.Second), audioPath)
	require.NoError(t, err)
	require.Equal(t, "ok", text)
}
