package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/api/files/")
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	info, err := store.Save(ctx, "invoices/2026/12345.pdf", strings.NewReader("%PDF-1.3"), "application/pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if info.FileSize != 8 || info.FileName != "12345.pdf" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.URL != "http://localhost:8080/api/files/invoices/2026/12345.pdf" {
		t.Errorf("URL = %q", info.URL)
	}

	full := filepath.Join(dir, "invoices", "2026", "12345.pdf")
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	if err := store.Delete(ctx, "invoices/2026/12345.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "invoices/2026/12345.pdf"); err != nil {
		t.Errorf("deleting a missing file should succeed, got %v", err)
	}
}

func TestLocalStoreStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "archive"), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(context.Background(), "../escape.pdf", strings.NewReader("x"), "application/pdf"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.pdf")); err == nil {
		t.Error("file escaped the archive directory")
	}
}

type fakeObjects struct {
	put    *s3.PutObjectInput
	body   string
	delKey string
	err    error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.delKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestR2StoreSave(t *testing.T) {
	fake := &fakeObjects{}
	store := newR2Store(fake, "invoices", "https://pub-abc.r2.dev/")

	info, err := store.Save(context.Background(), "2026/54321.pdf", strings.NewReader("%PDF"), "application/pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if aws.ToString(fake.put.Bucket) != "invoices" || aws.ToString(fake.put.Key) != "2026/54321.pdf" {
		t.Errorf("unexpected put input %+v", fake.put)
	}
	if aws.ToInt64(fake.put.ContentLength) != 4 || fake.body != "%PDF" {
		t.Errorf("body not uploaded intact: len=%d body=%q", aws.ToInt64(fake.put.ContentLength), fake.body)
	}
	if info.URL != "https://pub-abc.r2.dev/2026/54321.pdf" || info.FileName != "54321.pdf" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestR2StoreErrors(t *testing.T) {
	fake := &fakeObjects{err: errors.New("boom")}
	store := newR2Store(fake, "invoices", "")

	if _, err := store.Save(context.Background(), "a.pdf", strings.NewReader("x"), "application/pdf"); err == nil {
		t.Error("expected save error")
	}
	if err := store.Delete(context.Background(), "a.pdf"); err == nil {
		t.Error("expected delete error")
	}
}

func TestNewR2StoreRequiresBucket(t *testing.T) {
	if _, err := NewR2Store(context.Background(), R2Config{AccountID: "acct"}); err == nil {
		t.Error("expected error without bucket")
	}
}
