package s3client

import "testing"

func TestParseObjectURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{
			name:       "bucket and key",
			uri:        "s3://mybucket/backup.zip",
			wantBucket: "mybucket",
			wantKey:    "backup.zip",
		},
		{
			name:       "nested key",
			uri:        "s3://mybucket/releases/2024/site.zip",
			wantBucket: "mybucket",
			wantKey:    "releases/2024/site.zip",
		},
		{
			name:    "bucket only",
			uri:     "s3://mybucket",
			wantErr: true,
		},
		{
			name:    "prefix not object",
			uri:     "s3://mybucket/prefix/",
			wantErr: true,
		},
		{
			name:    "invalid scheme",
			uri:     "http://mybucket/file.zip",
			wantErr: true,
		},
		{
			name:    "empty bucket",
			uri:     "s3:///file.zip",
			wantErr: true,
		},
		{
			name:    "just scheme",
			uri:     "s3://",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotBucket, gotKey, err := ParseObjectURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseObjectURI() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if gotBucket != tt.wantBucket {
				t.Errorf("ParseObjectURI() gotBucket = %v, want %v", gotBucket, tt.wantBucket)
			}
			if gotKey != tt.wantKey {
				t.Errorf("ParseObjectURI() gotKey = %v, want %v", gotKey, tt.wantKey)
			}
		})
	}
}

func TestIsS3URI(t *testing.T) {
	if !IsS3URI("s3://b/k.zip") {
		t.Error("IsS3URI(s3://b/k.zip) = false")
	}
	if IsS3URI("/tmp/k.zip") {
		t.Error("IsS3URI(/tmp/k.zip) = true")
	}
}
