package aws

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	awssdk "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/google/go-cmp/cmp"
)

type fakeS3 struct {
	s3iface.S3API
	uploads map[string]string
	types   map[string]string
}

func (f *fakeS3) PutObjectWithContext(ctx awssdk.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	buf, err := ioutil.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := *in.Bucket + "/" + *in.Key
	f.uploads[key] = string(buf)
	f.types[key] = awssdk.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Upload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "github_org_stats_SEEK-Jobs_20240310_120000.json")
	if err := os.WriteFile(file, []byte(`{"organization":"SEEK-Jobs"}`), 0644); err != nil {
		t.Fatal(err)
	}

	fake := &fakeS3{uploads: map[string]string{}, types: map[string]string{}}
	s := &S3{client: fake, bucket: "reports", prefix: "orgstats/daily"}

	location, err := s.Upload(context.Background(), file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := "reports/orgstats/daily/github_org_stats_SEEK-Jobs_20240310_120000.json"
	if location != "s3://"+key {
		t.Errorf("unexpected location %s", location)
	}
	if diff := cmp.Diff(map[string]string{key: `{"organization":"SEEK-Jobs"}`}, fake.uploads); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if got := fake.types[key]; got != "application/json" {
		t.Errorf("unexpected content type %s", got)
	}
}

func TestS3UploadMissingFile(t *testing.T) {
	s := &S3{client: &fakeS3{}, bucket: "reports"}
	if _, err := s.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error")
	}
}

type fakeSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	secrets map[string]*string
}

func (f *fakeSecretsManager) GetSecretValueWithContext(ctx awssdk.Context, in *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error) {
	return &secretsmanager.GetSecretValueOutput{SecretString: f.secrets[*in.SecretId]}, nil
}

func TestSecretValue(t *testing.T) {
	s := &SecretsManager{client: &fakeSecretsManager{secrets: map[string]*string{
		"orgstats/app": awssdk.String(`{"gitHubAppID":1}`),
		"binary":       nil,
	}}}

	v, err := s.SecretValue(context.Background(), "orgstats/app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != `{"gitHubAppID":1}` {
		t.Errorf("unexpected value %s", v)
	}

	if _, err := s.SecretValue(context.Background(), "binary"); err == nil {
		t.Error("expected error for a secret without a string value")
	}
}
