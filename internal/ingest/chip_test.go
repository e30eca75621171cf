package ingest

import (
	"strings"
	"testing"

	"mcugen/internal/model"
)

const chipDoc = `<Chip>
  <Class>STM32F405</Class>
  <Compatible>STM32F405RG,STM32F405VG</Compatible>
  <Vendor>ST</Vendor>
  <Platform>A7M</Platform>
  <Cores>1</Cores>
  <Regions>8</Regions>
  <Attribute><Flash_Size>1024</Flash_Size></Attribute>
  <Memory>
    <Mem><Start>0x08000000</Start><Size>0x10000</Size><Type>Code</Type></Mem>
    <Mem><Start>0x20000000</Start><Size>0x8000</Size><Type>Data</Type></Mem>
    <Mem><Start>0x40000000</Start><Size>0x10000</Size><Type>Device</Type></Mem>
  </Memory>
  <Option>
    <Opt><Name>Clock</Name><Type>Range</Type><Macro>CLOCK_HZ</Macro><Range>1,168000000</Range></Opt>
  </Option>
  <Vector>
    <Vect><Name>TIM2</Name><Number>28</Number></Vect>
    <Vect><Name>USART1</Name><Number>37</Number></Vect>
  </Vector>
</Chip>`

func TestParseChip(t *testing.T) {
	chip, d := ParseChip([]byte(chipDoc))
	if d != nil {
		t.Fatalf("ParseChip: %v", d)
	}
	if chip.Class != "STM32F405" || chip.Plat != "A7M" || chip.Cores != 1 || chip.Regions != 8 {
		t.Fatalf("chip header mismatch: %+v", chip)
	}
	if len(chip.Code) != 1 || len(chip.Data) != 1 || len(chip.Device) != 1 {
		t.Fatalf("chip memory lists mismatch")
	}
	if chip.Code[0].Start != 0x08000000 || chip.Code[0].Size != 0x10000 {
		t.Fatalf("chip code segment mismatch: %+v", chip.Code[0])
	}
	if len(chip.Options) != 1 || chip.Options[0].Kind != model.OptionRange {
		t.Fatalf("chip options mismatch: %+v", chip.Options)
	}
	if v, ok := chip.FindVector("USART1"); !ok || v.Number != 37 {
		t.Fatalf("vector lookup mismatch: %+v %v", v, ok)
	}
}

func TestParseChipAutoStartRejected(t *testing.T) {
	doc := strings.Replace(chipDoc, "<Start>0x08000000</Start>", "<Start>Auto</Start>", 1)
	if _, d := ParseChip([]byte(doc)); d == nil {
		t.Fatalf("chip segments must have concrete starts")
	}
}

func TestParseChipWrongRoot(t *testing.T) {
	if _, d := ParseChip([]byte("<Project></Project>")); d == nil {
		t.Fatalf("wrong root must fail")
	}
}
