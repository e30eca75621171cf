package ingest

import (
	"fmt"

	"mcugen/internal/diag"
	"mcugen/internal/model"
	"mcugen/internal/xmltree"
)

// ParseChip ingests the chip description document.
func ParseChip(data []byte) (*model.Chip, *diag.Diagnostic) {
	root, err := xmltree.Parse(data, "Chip")
	if err != nil {
		return nil, diag.Errorf(diag.XMLMalformed, "Chip", "%v", err)
	}
	c := cursor{node: root, path: "Chip"}

	chip := &model.Chip{}
	var d *diag.Diagnostic
	if chip.Class, d = c.text("Class"); d != nil {
		return nil, d
	}
	if chip.Compat, d = c.text("Compatible"); d != nil {
		return nil, d
	}
	if chip.Vendor, d = c.text("Vendor"); d != nil {
		return nil, d
	}
	if chip.Plat, d = c.text("Platform"); d != nil {
		return nil, d
	}
	if chip.Cores, d = c.uint("Cores"); d != nil {
		return nil, d
	}
	if chip.Regions, d = c.uint("Regions"); d != nil {
		return nil, d
	}

	attr, d := c.section("Attribute")
	if d != nil {
		return nil, d
	}
	chip.Attr = attr.raw()

	mem, d := c.section("Memory")
	if d != nil {
		return nil, d
	}
	if d = parseChipMem(chip, mem); d != nil {
		return nil, d
	}

	opts, d := c.section("Option")
	if d != nil {
		return nil, d
	}
	if d = parseChipOptions(chip, opts); d != nil {
		return nil, d
	}

	vects, d := c.section("Vector")
	if d != nil {
		return nil, d
	}
	if d = parseChipVects(chip, vects); d != nil {
		return nil, d
	}
	return chip, nil
}

func parseChipMem(chip *model.Chip, c cursor) *diag.Diagnostic {
	for i, trunk := range c.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", c.path, i)}
		seg := &model.MemSegment{}
		var d *diag.Diagnostic
		// Chip segments always carry a concrete start.
		if seg.Start, d = tc.hex("Start", false); d != nil {
			return d
		}
		if seg.Size, d = tc.hex("Size", false); d != nil {
			return d
		}
		if seg.Size == 0 {
			return diag.Errorf(diag.XMLSizeZero, tc.at("Size"), "cannot be zero")
		}
		if seg.Start+seg.Size > 1<<32 {
			return diag.Errorf(diag.XMLSizeOutOfBound, tc.at("Size"), "is out of bound")
		}
		s, d := tc.text("Type")
		if d != nil {
			return d
		}
		if seg.Kind, d = parseMemKind(tc.at("Type"), s); d != nil {
			return d
		}
		// Chip trunks may omit attributes; default to the widest access and
		// let process declarations narrow it.
		if attr := trunk.Child("Attribute"); attr != nil {
			if seg.Attr, d = parseAttr(tc.at("Attribute"), attr.Text); d != nil {
				return d
			}
		} else {
			seg.Attr = model.MemRead | model.MemWrite | model.MemExecute
		}
		switch seg.Kind {
		case model.MemCode:
			chip.Code = append(chip.Code, seg)
		case model.MemData:
			chip.Data = append(chip.Data, seg)
		default:
			chip.Device = append(chip.Device, seg)
		}
	}
	return nil
}

func parseChipOptions(chip *model.Chip, c cursor) *diag.Diagnostic {
	for i, trunk := range c.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", c.path, i)}
		var opt model.ChipOption
		var d *diag.Diagnostic
		if opt.Name, d = tc.text("Name"); d != nil {
			return d
		}
		s, d := tc.text("Type")
		if d != nil {
			return d
		}
		if opt.Kind, d = parseOptionKind(tc.at("Type"), s); d != nil {
			return d
		}
		if opt.Macro, d = tc.text("Macro"); d != nil {
			return d
		}
		if opt.Range, d = tc.text("Range"); d != nil {
			return d
		}
		chip.Options = append(chip.Options, opt)
	}
	return nil
}

func parseChipVects(chip *model.Chip, c cursor) *diag.Diagnostic {
	for i, trunk := range c.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", c.path, i)}
		var vect model.ChipVector
		var d *diag.Diagnostic
		if vect.Name, d = tc.text("Name"); d != nil {
			return d
		}
		if vect.Number, d = tc.uint("Number"); d != nil {
			return d
		}
		chip.Vects = append(chip.Vects, vect)
	}
	return nil
}
