package emit

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"mcugen/internal/caps"
	"mcugen/internal/model"
	"mcugen/internal/pgtbl"
)

func testEmitter() *Emitter {
	a := &model.Process{
		Name: "A",
		Comp: model.CompilerOptions{Opt: model.OptO2},
		Code: []*model.MemSegment{{Start: 0x08010000, Size: 0x1000, Kind: model.MemCode,
			Attr: model.MemRead | model.MemExecute | model.MemStatic}},
		Data: []*model.MemSegment{{Start: 0x20000400, Size: 0x400, Kind: model.MemData,
			Attr: model.MemRead | model.MemWrite | model.MemStatic}},
		Threads: []*model.Thread{{Name: "Init", Entry: "Thd_Init", StackBase: 0x20000600, StackSize: 0x200, Priority: 5}},
		Vects:   []*model.Vector{{Name: "TIM2", Number: 28}},
	}
	proj := &model.Project{
		Name: "Test", Plat: "A7M", ChipClass: "STM32F405", ChipFull: "STM32F405RG",
		RME: model.RMEConfig{
			Comp:      model.CompilerOptions{Opt: model.OptO2},
			CodeStart: 0x08000000, CodeSize: 0x8000,
			DataStart: 0x20000000, DataSize: 0x200,
		},
		RVM:   model.RVMConfig{Comp: model.CompilerOptions{Opt: model.OptO2}, CodeSize: 0x8000, DataSize: 0x200},
		Procs: []*model.Process{a},
	}
	table, d := caps.Alloc(proj, 0)
	if d != nil {
		panic(d)
	}
	node, d2 := pgtbl.Synthesize([]pgtbl.Seg{
		{Start: 0x08010000, Size: 0x1000, Attr: a.Code[0].Attr},
		{Start: 0x20000400, Size: 0x400, Attr: a.Data[0].Attr},
	}, 32)
	if d2 != nil {
		panic(d2)
	}
	return &Emitter{
		Proj: proj, Chip: &model.Chip{Vendor: "ST"}, Caps: table,
		PgTbls: map[*model.Process]*pgtbl.Node{a: node},
		Format: FormatKeil,
	}
}

func TestParseFormat(t *testing.T) {
	for _, ok := range []string{"keil", "eclipse", "makefile"} {
		if _, d := ParseFormat(ok); d != nil {
			t.Fatalf("ParseFormat(%q): %v", ok, d)
		}
	}
	if _, d := ParseFormat("xcode"); d == nil {
		t.Fatalf("unknown format must fail")
	}
}

func TestImagesOrder(t *testing.T) {
	e := testEmitter()
	imgs := e.images()
	if len(imgs) != 3 || imgs[0].suffix != "RME" || imgs[1].suffix != "RVM" || imgs[2].suffix != "A" {
		t.Fatalf("image order wrong: %+v", imgs)
	}
	// RVM sits immediately after RME in both code and data.
	if imgs[1].codeStart != imgs[0].codeStart+imgs[0].codeSize {
		t.Fatalf("RVM code does not follow RME")
	}
	if imgs[1].dataStart != imgs[0].dataStart+imgs[0].dataSize {
		t.Fatalf("RVM data does not follow RME")
	}
}

func TestScatterScript(t *testing.T) {
	e := testEmitter()
	img := e.images()[2]
	content := scatterScript("Test_A", img)
	for _, want := range []string{"LR_IROM1 0x08010000 0x00001000", "RW_IRAM1 0x20000400 0x00000400"} {
		if !strings.Contains(content, want) {
			t.Fatalf("scatter misses %q:\n%s", want, content)
		}
	}
}

func TestLdScript(t *testing.T) {
	e := testEmitter()
	img := e.images()[2]
	content := ldScript("Test_A", img)
	for _, want := range []string{
		"ORIGIN = 0x08010000, LENGTH = 0x00001000",
		"ORIGIN = 0x20000400, LENGTH = 0x00000400",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("ld script misses %q:\n%s", want, content)
		}
	}
}

func TestRVMBootHeaderOrder(t *testing.T) {
	e := testEmitter()
	header := e.rvmBootHeader()
	// Captbl, process, thread get the dense IDs 0, 1, 2.
	for _, want := range []string{
		"#define RVM_BOOT_CAPTBL_A", "(0)",
		"#define RVM_BOOT_PROC_A", "(1)",
		"#define RVM_BOOT_THD_A_INIT", "(2)",
	} {
		if !strings.Contains(header, want) {
			t.Fatalf("boot header misses %q:\n%s", want, header)
		}
	}
	captbl := strings.Index(header, "RVM_BOOT_CAPTBL_A")
	proc := strings.Index(header, "RVM_BOOT_PROC_A")
	thd := strings.Index(header, "RVM_BOOT_THD_A_INIT")
	if !(captbl < proc && proc < thd) {
		t.Fatalf("macro order does not follow creation order")
	}
}

func TestRVMBootSourceCreationOrder(t *testing.T) {
	e := testEmitter()
	src := e.rvmBootSource()
	captbl := strings.Index(src, "RVM_Captbl_Crt(")
	proc := strings.Index(src, "RVM_Proc_Crt(")
	thd := strings.Index(src, "RVM_Thd_Crt(")
	if captbl < 0 || proc < 0 || thd < 0 {
		t.Fatalf("creation calls missing:\n%s", src)
	}
	if !(captbl < proc && proc < thd) {
		t.Fatalf("creation order violated")
	}
	if !strings.Contains(src, "RVM_Boot_Delegate") {
		t.Fatalf("delegation function missing")
	}
}

func TestRMEBootVector(t *testing.T) {
	e := testEmitter()
	header := e.rmeBootHeader()
	if !strings.Contains(header, "RME_BOOT_VECT_TIM2") || !strings.Contains(header, "(28)") {
		t.Fatalf("vector macro missing:\n%s", header)
	}
	src := e.rmeBootSource()
	if !strings.Contains(src, "case RME_BOOT_VECT_TIM2:") {
		t.Fatalf("vector dispatch missing:\n%s", src)
	}
}

func TestFormatsAgreeOnOptimization(t *testing.T) {
	e := testEmitter()
	img := e.images()[2]
	flag := img.comp.Opt.Flag()
	if !strings.Contains(e.makefileProject("Test_A", img), flag) {
		t.Fatalf("makefile misses %s", flag)
	}
	if !strings.Contains(e.eclipseCProject("Test_A", img), flag) {
		t.Fatalf("cproject misses %s", flag)
	}
}

func TestLayoutPayloadDeterministic(t *testing.T) {
	e := testEmitter()
	p1 := e.layoutPayload()
	p2 := e.layoutPayload()
	if len(p1.Segments) != len(p2.Segments) || len(p1.Caps) != len(p2.Caps) {
		t.Fatalf("payload not stable")
	}
	if p1.Schema != layoutSchemaVersion {
		t.Fatalf("schema tag missing")
	}
	// Kernel areas lead the record, processes follow in project order.
	if p1.Segments[0].Kind != "Code" || p1.Segments[0].Proc != "" {
		t.Fatalf("RME code area must lead the record")
	}
	last := p1.Segments[len(p1.Segments)-1]
	if last.Proc != "A" {
		t.Fatalf("process segments must close the record")
	}
}

func TestIncludeHeaders(t *testing.T) {
	e := testEmitter()
	e.Chip.Options = []model.ChipOption{
		{Name: "Clock", Kind: model.OptionRange, Macro: "CLOCK_HZ", Range: "1,168000000"},
		{Name: "Bank", Kind: model.OptionSelect, Macro: "FLASH_BANK", Range: "Single,Dual"},
	}
	if got := optionDefault(e.Chip.Options[0]); got != "1" {
		t.Fatalf("range default = %q", got)
	}
	if got := optionDefault(e.Chip.Options[1]); got != "Single" {
		t.Fatalf("select default = %q", got)
	}
}

func TestKeilWorkspaceListsAllImages(t *testing.T) {
	e := testEmitter()
	e.Output = t.TempDir()
	if d := e.keilWorkspace(); d != nil {
		t.Fatalf("keilWorkspace: %v", d)
	}
	data, err := os.ReadFile(filepath.Join(e.Output, "Test.uvmpw"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Test_RME.uvprojx", "Test_RVM.uvprojx", "Test_A.uvprojx"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("workspace misses %q:\n%s", want, data)
		}
	}
}

// Re-parsing an emitted scatter file must give back the exact placement.
func TestScatterRoundTrip(t *testing.T) {
	e := testEmitter()
	for _, img := range e.images() {
		content := scatterScript(e.imageName(img.suffix), img)
		var loadStart, loadSize, ramStart, ramSize uint64
		for _, line := range strings.Split(content, "\n") {
			fields := strings.Fields(line)
			if len(fields) == 3 && fields[0] == "LR_IROM1" {
				loadStart = mustHex(t, fields[1])
				loadSize = mustHex(t, fields[2])
			}
			if len(fields) == 3 && fields[0] == "RW_IRAM1" {
				ramStart = mustHex(t, fields[1])
				ramSize = mustHex(t, fields[2])
			}
		}
		if loadStart != img.codeStart || loadSize != img.codeSize {
			t.Fatalf("%s: code round-trip %#x+%#x != %#x+%#x",
				img.suffix, loadStart, loadSize, img.codeStart, img.codeSize)
		}
		if ramStart != img.dataStart || ramSize != img.dataSize {
			t.Fatalf("%s: data round-trip mismatch", img.suffix)
		}
	}
}

func mustHex(t *testing.T, s string) uint64 {
	t.Helper()
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return v
}
