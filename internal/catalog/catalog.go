// Package catalog holds the static champion reference data. The catalog is
// built once at startup, is immutable afterwards, and is handed to the
// resolvers that need it.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
)

const dataDragonBaseURL = "https://ddragon.leagueoflegends.com"

// Champion is the display metadata for one champion.
type Champion struct {
	ID    int
	Name  string
	Title string
	Tags  []string
}

// Catalog maps numeric champion ids to their metadata.
type Catalog struct {
	byID map[int]Champion
}

// ByID looks up a champion by its numeric id.
func (c *Catalog) ByID(id int) (Champion, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// Size returns the number of champions loaded.
func (c *Catalog) Size() int {
	return len(c.byID)
}

// Data Dragon champion.json shape: data is keyed by champion slug, the
// numeric id lives in the string "key" field.
type ddChampionFile struct {
	Data map[string]ddChampion `json:"data"`
}

type ddChampion struct {
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// LoadFile builds a catalog from a champion.json on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open champion data: %w", err)
	}
	defer f.Close()
	return parse(f)
}

// Fetch builds a catalog from Data Dragon, resolving the latest data version
// first.
func Fetch(ctx context.Context, client *http.Client) (*Catalog, error) {
	var versions []string
	if err := getJSON(ctx, client, dataDragonBaseURL+"/api/versions.json", &versions); err != nil {
		return nil, fmt.Errorf("failed to fetch versions: %w", err)
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("versions response was empty")
	}

	u := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", dataDragonBaseURL, versions[0])
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch champion data: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("champion data request failed with status %d", resp.StatusCode)
	}
	return parse(resp.Body)
}

func parse(r io.Reader) (*Catalog, error) {
	var file ddChampionFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode champion data: %w", err)
	}

	byID := make(map[int]Champion, len(file.Data))
	for _, c := range file.Data {
		id, err := strconv.Atoi(c.Key)
		if err != nil {
			continue
		}
		byID[id] = Champion{ID: id, Name: c.Name, Title: c.Title, Tags: c.Tags}
	}
	return &Catalog{byID: byID}, nil
}

func getJSON(ctx context.Context, client *http.Client, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
