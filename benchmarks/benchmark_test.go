package benchmarks

import (
	"encoding/json"
	"testing"

	"github.com/buger/jsonparser"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"

	"github.com/biggeezerdevelopment/lazyjson"
)

var (
	smallJSON = []byte(`{"name":"John","age":30,"city":"New York"}`)

	mediumJSON = []byte(`{
		"users": [
			{"id": 1, "name": "Alice", "email": "alice@example.com", "active": true},
			{"id": 2, "name": "Bob", "email": "bob@example.com", "active": false},
			{"id": 3, "name": "Charlie", "email": "charlie@example.com", "active": true},
			{"id": 4, "name": "David", "email": "david@example.com", "active": true},
			{"id": 5, "name": "Eve", "email": "eve@example.com", "active": false}
		],
		"metadata": {
			"version": "1.0.0",
			"timestamp": 1234567890,
			"count": 5
		}
	}`)

	largeJSON []byte

	jsoniterStd = jsoniter.ConfigCompatibleWithStandardLibrary
)

func init() {
	largeJSON = []byte(`[`)
	for i := 0; i < 1000; i++ {
		if i > 0 {
			largeJSON = append(largeJSON, ',')
		}
		largeJSON = append(largeJSON, []byte(`{
			"id": 12345,
			"name": "User Name Here",
			"email": "user@example.com",
			"age": 25,
			"active": true,
			"tags": ["tag1", "tag2", "tag3"],
			"profile": {
				"bio": "This is a bio text",
				"location": "San Francisco, CA",
				"website": "https://example.com"
			}
		}`)...)
	}
	largeJSON = append(largeJSON, ']')
}

type SmallStruct struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
	City string `json:"city"`
}

type MediumStruct struct {
	Users []struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Active bool   `json:"active"`
	} `json:"users"`
	Metadata struct {
		Version   string `json:"version"`
		Timestamp int64  `json:"timestamp"`
		Count     int    `json:"count"`
	} `json:"metadata"`
}

type unmarshalFunc func([]byte, any) error

var unmarshalers = []struct {
	name string
	fn   unmarshalFunc
}{
	{"StdLib", json.Unmarshal},
	{"GoJSON", gojson.Unmarshal},
	{"Jsoniter", jsoniterStd.Unmarshal},
	{"LazyJSON", lazyjson.Unmarshal},
}

func benchUnmarshal(b *testing.B, data []byte, newValue func() any) {
	for _, u := range unmarshalers {
		b.Run(u.name, func(b *testing.B) {
			v := newValue()
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				if err := u.fn(data, v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkUnmarshalSmall(b *testing.B) {
	benchUnmarshal(b, smallJSON, func() any { return new(SmallStruct) })
}

func BenchmarkUnmarshalMedium(b *testing.B) {
	benchUnmarshal(b, mediumJSON, func() any { return new(MediumStruct) })
}

func BenchmarkUnmarshalLarge(b *testing.B) {
	benchUnmarshal(b, largeJSON, func() any { return new([]interface{}) })
}

func BenchmarkMarshalMedium(b *testing.B) {
	var m MediumStruct
	if err := json.Unmarshal(mediumJSON, &m); err != nil {
		b.Fatal(err)
	}
	marshalers := []struct {
		name string
		fn   func(any) ([]byte, error)
	}{
		{"StdLib", json.Marshal},
		{"GoJSON", gojson.Marshal},
		{"Jsoniter", jsoniterStd.Marshal},
		{"LazyJSON", lazyjson.Marshal},
	}
	for _, mm := range marshalers {
		b.Run(mm.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := mm.fn(m); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkValidateLarge(b *testing.B) {
	b.Run("StdLib", func(b *testing.B) {
		b.SetBytes(int64(len(largeJSON)))
		for b.Loop() {
			_ = json.Valid(largeJSON)
		}
	})
	b.Run("GoJSON", func(b *testing.B) {
		b.SetBytes(int64(len(largeJSON)))
		for b.Loop() {
			_ = gojson.Valid(largeJSON)
		}
	})
	b.Run("LazyJSON", func(b *testing.B) {
		b.SetBytes(int64(len(largeJSON)))
		for b.Loop() {
			_ = lazyjson.Valid(largeJSON)
		}
	})
}

// BenchmarkFieldLookup reads one field from the middle of a document, where
// lazy parsers skip the rest.
func BenchmarkFieldLookup(b *testing.B) {
	b.Run("Jsonparser", func(b *testing.B) {
		b.SetBytes(int64(len(mediumJSON)))
		for b.Loop() {
			if _, err := jsonparser.GetInt(mediumJSON, "metadata", "timestamp"); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("LazyJSON", func(b *testing.B) {
		p, err := lazyjson.NewParser()
		if err != nil {
			b.Fatal(err)
		}
		b.SetBytes(int64(len(mediumJSON)))
		b.ReportAllocs()
		for b.Loop() {
			doc, err := p.Parse(mediumJSON)
			if err != nil {
				b.Fatal(err)
			}
			if _, err := doc.FindField("metadata").FindField("timestamp").GetInt64(); err != nil {
				b.Fatal(err)
			}
		}
	})
}
