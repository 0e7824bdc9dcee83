package netutil

import "testing"

func TestExpandCIDR(t *testing.T) {
	tests := []struct {
		name  string
		cidr  string
		ports []int
		want  []string
	}{
		{
			name: "slash-30 skips network and broadcast",
			cidr: "192.0.2.0/30",
			want: []string{"http://192.0.2.1", "http://192.0.2.2"},
		},
		{
			name: "slash-31 keeps both addresses",
			cidr: "192.0.2.0/31",
			want: []string{"http://192.0.2.0", "http://192.0.2.1"},
		},
		{
			name:  "ports fan out per host",
			cidr:  "192.0.2.0/31",
			ports: []int{8080, 8443},
			want: []string{
				"http://192.0.2.0:8080", "http://192.0.2.0:8443",
				"http://192.0.2.1:8080", "http://192.0.2.1:8443",
			},
		},
		{
			name:  "default port left out of URL",
			cidr:  "192.0.2.5",
			ports: []int{80, 8000},
			want:  []string{"http://192.0.2.5", "http://192.0.2.5:8000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandCIDR(tt.cidr, tt.ports)
			if err != nil {
				t.Fatalf("ExpandCIDR: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExpandCIDRInvalid(t *testing.T) {
	if _, err := ExpandCIDR("not-a-range", nil); err == nil {
		t.Fatal("expected error for invalid input")
	}
}
