package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
	"railcraft.ai/internal/sim/world/logic/railnet"
)

var ErrUnknownBlock = errors.New("unknown block")

type Catalogs struct {
	Blocks BlockCatalog
	Items  ItemCatalog

	// Rails groups rail blocks into auto-connecting families.
	Rails *railnet.Registry
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
	DefsDigest    string
}

type BlockDef struct {
	ID         string `json:"id"`
	Solid      bool   `json:"solid"`
	Penetrable bool   `json:"penetrable"`
	Liquid     bool   `json:"liquid"`

	// Rail variants: family id, linked sides ("+X","-X","+Z","-Z") and
	// whether this is the variant placed when nothing connects.
	Family      string   `json:"family,omitempty"`
	Connections []string `json:"connections,omitempty"`
	Default     bool     `json:"default,omitempty"`
}

type ItemCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]ItemDef
	PaletteDigest string
	DefsDigest    string
}

type ItemDef struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // "BLOCK","MATERIAL","CART"
	PlaceAs string `json:"place_as,omitempty"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := c.buildRails(); err != nil {
		return nil, err
	}
	if err := c.checkItems(); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Defs = map[string]BlockDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("blocks.json: empty id")
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Ensure AIR exists and is palette id 0.
	if _, ok := out.Defs["AIR"]; !ok {
		return fmt.Errorf("blocks.json: missing AIR")
	}
	ids = append([]string{"AIR"}, filterOut(ids, "AIR")...)

	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func (c *Catalogs) buildRails() error {
	type famDraft struct {
		def      uint16
		hasDef   bool
		variants map[modelpkg.ConnMask]uint16
	}
	drafts := map[string]*famDraft{}
	for _, id := range c.Blocks.Palette {
		d := c.Blocks.Defs[id]
		if d.Family == "" {
			continue
		}
		b := c.Blocks.Index[id]
		var mask modelpkg.ConnMask
		for _, tag := range d.Connections {
			s, ok := modelpkg.ParseSide(tag)
			if !ok || !s.Horizontal() {
				return fmt.Errorf("blocks.json: %s: bad connection %q", id, tag)
			}
			mask |= modelpkg.MaskOf(s)
		}
		fd := drafts[d.Family]
		if fd == nil {
			fd = &famDraft{variants: map[modelpkg.ConnMask]uint16{}}
			drafts[d.Family] = fd
		}
		if _, dup := fd.variants[mask]; dup {
			return fmt.Errorf("blocks.json: family %s: two variants link %v", d.Family, d.Connections)
		}
		fd.variants[mask] = b
		if d.Default {
			if fd.hasDef {
				return fmt.Errorf("blocks.json: family %s: more than one default variant", d.Family)
			}
			fd.def, fd.hasDef = b, true
		}
	}

	names := make([]string, 0, len(drafts))
	for name := range drafts {
		if d, ok := c.Blocks.Defs[name]; ok && d.Family == "" {
			return fmt.Errorf("blocks.json: block %s shares its id with a rail family", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	fams := make([]*railnet.Family, 0, len(names))
	for _, name := range names {
		fd := drafts[name]
		if !fd.hasDef {
			return fmt.Errorf("blocks.json: family %s: no default variant", name)
		}
		f, err := railnet.NewFamily(name, fd.def, fd.variants)
		if err != nil {
			return fmt.Errorf("blocks.json: %w", err)
		}
		fams = append(fams, f)
	}
	reg, err := railnet.NewRegistry(fams...)
	if err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	c.Rails = reg
	return nil
}

func (c *Catalogs) checkItems() error {
	for _, id := range c.Items.Palette {
		d := c.Items.Defs[id]
		if d.PlaceAs == "" {
			continue
		}
		if _, ok := c.Blocks.Defs[d.PlaceAs]; !ok {
			return fmt.Errorf("items.json: %s places %s: %w", id, d.PlaceAs, ErrUnknownBlock)
		}
	}
	return nil
}

func filterOut(ids []string, drop string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

// BlockID resolves a block name to its palette id.
func (c *Catalogs) BlockID(name string) (uint16, error) {
	b, ok := c.Blocks.Index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownBlock, name)
	}
	return b, nil
}

// BlockName is the palette name of b, or "" for ids outside the palette.
func (c *Catalogs) BlockName(b uint16) string {
	if int(b) >= len(c.Blocks.Palette) {
		return ""
	}
	return c.Blocks.Palette[b]
}

func (c *Catalogs) BlockDefOf(b uint16) (BlockDef, bool) {
	name := c.BlockName(b)
	if name == "" {
		return BlockDef{}, false
	}
	d, ok := c.Blocks.Defs[name]
	return d, ok
}

func (c *Catalogs) FamilyOfBlock(b uint16) (*railnet.Family, bool) {
	return c.Rails.OfBlock(b)
}

// ItemPlaceFamily returns the family of the block an item places. Blocks that
// are not rail variants form a family of their own; Load rejects plain blocks
// named after a rail family.
func (c *Catalogs) ItemPlaceFamily(item string) (string, bool) {
	d, ok := c.Items.Defs[item]
	if !ok || d.PlaceAs == "" {
		return "", false
	}
	bd, ok := c.Blocks.Defs[d.PlaceAs]
	if !ok {
		return "", false
	}
	if bd.Family != "" {
		return bd.Family, true
	}
	return bd.ID, true
}
