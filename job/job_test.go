package job

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"

	pager "gitea.narnian.us/lordwelch/comic-pager"
	"gitea.narnian.us/lordwelch/comic-pager/imageio"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "1.jpg")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		req     Request
		want    Job
		wantErr error
	}{
		{
			name: "scale directory by percent",
			req:  Request{Path: dir, Scale: []int{50}},
			want: ScaleDirectory{Dir: dir, Size: imageio.Size{Percent: 50}},
		},
		{
			name: "scale file to resolution",
			req:  Request{Path: file, Scale: []int{1920, 1080}, Override: true},
			want: ScaleFile{Path: file, Size: imageio.Size{Width: 1920, Height: 1080}, Override: true},
		},
		{
			name: "crop directory",
			req:  Request{Path: dir, Crop: []int{2450, 3800}},
			want: CropDirectory{Dir: dir, Size: imageio.Size{Width: 2450, Height: 3800}},
		},
		{
			name: "crop file",
			req:  Request{Path: file, Crop: []int{90}},
			want: CropFile{Path: file, Size: imageio.Size{Percent: 90}},
		},
		{
			name: "sort",
			req:  Request{Path: dir, Sort: true, Offset: 3, Strategy: pager.FirstDigitRunOnly, DryRun: true},
			want: SortDirectory{Dir: dir, Offset: 3, Strategy: pager.FirstDigitRunOnly, DryRun: true},
		},
		{
			name:    "no action",
			req:     Request{Path: dir},
			wantErr: ErrNoAction,
		},
		{
			name:    "two actions",
			req:     Request{Path: dir, Scale: []int{50}, Sort: true},
			wantErr: ErrTooManyActions,
		},
		{
			name:    "sort a file",
			req:     Request{Path: file, Sort: true},
			wantErr: ErrSortNeedsDir,
		},
		{
			name:    "bad size",
			req:     Request{Path: dir, Scale: []int{1, 2, 3}},
			wantErr: imageio.ErrInvalidSize,
		},
		{
			name:    "missing path",
			req:     Request{Path: filepath.Join(dir, "missing"), Scale: []int{50}},
			wantErr: fs.ErrNotExist,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if diff := pretty.Diff(got, tt.want); len(diff) > 0 {
				t.Errorf("Resolve: %v", diff)
			}
		})
	}
}
