package tuning

import "testing"

func TestNormalizeClampsRanges(t *testing.T) {
	p := Normalize(Params{CacheLevel: CacheHigh, DBPoolSize: 500, RequestTimeoutSec: 1})
	if p.DBPoolSize != MaxPoolSize {
		t.Fatalf("pool size: got %d, want %d", p.DBPoolSize, MaxPoolSize)
	}
	if p.RequestTimeoutSec != MinTimeoutSec {
		t.Fatalf("timeout: got %d, want %d", p.RequestTimeoutSec, MinTimeoutSec)
	}
	if p.CacheLevel != CacheHigh {
		t.Fatalf("cache level changed: got %s", p.CacheLevel)
	}

	p = Normalize(Params{CacheLevel: "turbo", DBPoolSize: 1, RequestTimeoutSec: 999})
	if p.CacheLevel != CacheMedium {
		t.Fatalf("unknown level: got %s, want medium", p.CacheLevel)
	}
	if p.DBPoolSize != MinPoolSize {
		t.Fatalf("pool size: got %d, want %d", p.DBPoolSize, MinPoolSize)
	}
	if p.RequestTimeoutSec != MaxTimeoutSec {
		t.Fatalf("timeout: got %d, want %d", p.RequestTimeoutSec, MaxTimeoutSec)
	}
}

func TestNormalizeKeepsInRangeValues(t *testing.T) {
	in := Params{AutoOptimization: true, CacheLevel: CacheAggressive, DBPoolSize: 35, RequestTimeoutSec: 45}
	if got := Normalize(in); got != in {
		t.Fatalf("got %+v, want %+v", got, in)
	}
}

func TestParseCacheLevel(t *testing.T) {
	cases := []struct {
		in   string
		want CacheLevel
		ok   bool
	}{
		{"low", CacheLow, true},
		{"  HIGH ", CacheHigh, true},
		{"aggressive", CacheAggressive, true},
		{"medium", CacheMedium, true},
		{"", CacheMedium, false},
		{"extreme", CacheMedium, false},
	}
	for _, tc := range cases {
		got, ok := ParseCacheLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseCacheLevel(%q) = %s, %v; want %s, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCacheLevelNext(t *testing.T) {
	if got := CacheLow.Next(); got != CacheMedium {
		t.Fatalf("low.Next() = %s", got)
	}
	if got := CacheHigh.Next(); got != CacheAggressive {
		t.Fatalf("high.Next() = %s", got)
	}
	if got := CacheAggressive.Next(); got != CacheAggressive {
		t.Fatalf("aggressive.Next() = %s", got)
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.AutoOptimization {
		t.Fatalf("auto optimization should default off")
	}
	if d.CacheLevel != CacheMedium || d.DBPoolSize != DefaultPoolSize || d.RequestTimeoutSec != DefaultTimeoutSec {
		t.Fatalf("unexpected defaults: %+v", d)
	}
}
