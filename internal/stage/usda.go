package stage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ivlev/stagecraft/internal/spatial"
)

// Write serializes the stage as usda text.
func (s *Stage) Write(w io.Writer) error {
	var b strings.Builder
	s.writeHeader(&b)
	for _, p := range s.roots {
		writePrim(&b, p, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Export writes the stage to a file, creating parent directories.
func (s *Stage) Export(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// String returns the usda text, for logging and tests.
func (s *Stage) String() string {
	var b strings.Builder
	s.Write(&b)
	return b.String()
}

func (s *Stage) writeHeader(b *strings.Builder) {
	b.WriteString("#usda 1.0\n(\n")
	if s.defaultPrim != "" {
		fmt.Fprintf(b, "    defaultPrim = %q\n", s.defaultPrim)
	}
	if s.hasTimeCodes {
		fmt.Fprintf(b, "    endTimeCode = %d\n", s.endTime)
	}
	fmt.Fprintf(b, "    metersPerUnit = %s\n", formatFloat(s.metersPerUnit))
	if s.hasTimeCodes {
		fmt.Fprintf(b, "    startTimeCode = %d\n", s.startTime)
	}
	fmt.Fprintf(b, "    upAxis = %q\n", s.upAxis)

	if len(s.metadata) > 0 {
		keys := make([]string, 0, len(s.metadata))
		for k := range s.metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("    customLayerData = {\n")
		for _, k := range keys {
			fmt.Fprintf(b, "        string %s = %q\n", k, s.metadata[k])
		}
		b.WriteString("    }\n")
	}
	b.WriteString(")\n\n")
}

func writePrim(b *strings.Builder, p *Prim, depth int) {
	ind := strings.Repeat("    ", depth)

	if p.typeName != "" {
		fmt.Fprintf(b, "%sdef %s %q", ind, p.typeName, p.name)
	} else {
		fmt.Fprintf(b, "%sdef %q", ind, p.name)
	}
	writePrimMetadata(b, p, depth)
	fmt.Fprintf(b, "\n%s{\n", ind)

	inner := strings.Repeat("    ", depth+1)

	for _, a := range p.attrs {
		writeAttr(b, a, inner)
	}
	if len(p.xformOrder) > 0 {
		fmt.Fprintf(b, "%suniform token[] xformOpOrder = %s\n", inner, tokenList(p.xformOrder))
	}
	for _, r := range p.rels {
		writeRel(b, r, inner)
	}

	for _, vs := range p.variantSets {
		writeVariantSet(b, vs, depth+1)
	}

	for i, c := range p.children {
		if i > 0 || len(p.attrs) > 0 || len(p.rels) > 0 || len(p.variantSets) > 0 {
			b.WriteString("\n")
		}
		writePrim(b, c, depth+1)
	}

	fmt.Fprintf(b, "%s}\n", ind)
}

func writePrimMetadata(b *strings.Builder, p *Prim, depth int) {
	var selections []*VariantSet
	for _, vs := range p.variantSets {
		if vs.Selection != "" {
			selections = append(selections, vs)
		}
	}
	if len(p.references) == 0 && len(p.payloads) == 0 && len(p.variantSets) == 0 {
		return
	}

	ind := strings.Repeat("    ", depth)
	inner := ind + "    "
	b.WriteString(" (\n")
	for _, ref := range p.references {
		fmt.Fprintf(b, "%sprepend references = @%s@\n", inner, ref)
	}
	for _, pl := range p.payloads {
		fmt.Fprintf(b, "%sprepend payload = @%s@\n", inner, pl)
	}
	if len(selections) > 0 {
		fmt.Fprintf(b, "%svariants = {\n", inner)
		for _, vs := range selections {
			fmt.Fprintf(b, "%s    string %s = %q\n", inner, vs.Name, vs.Selection)
		}
		fmt.Fprintf(b, "%s}\n", inner)
	}
	if len(p.variantSets) > 0 {
		names := make([]string, len(p.variantSets))
		for i, vs := range p.variantSets {
			names[i] = vs.Name
		}
		fmt.Fprintf(b, "%sprepend variantSets = %s\n", inner, tokenList(names))
	}
	fmt.Fprintf(b, "%s)", ind)
}

func writeVariantSet(b *strings.Builder, vs *VariantSet, depth int) {
	ind := strings.Repeat("    ", depth)
	fmt.Fprintf(b, "%svariantSet %q = {\n", ind, vs.Name)
	for _, v := range vs.Variants {
		fmt.Fprintf(b, "%s    %q {\n", ind, v.Name)
		for _, a := range v.attrs {
			writeAttr(b, a, ind+"        ")
		}
		fmt.Fprintf(b, "%s    }\n", ind)
	}
	fmt.Fprintf(b, "%s}\n", ind)
}

func writeAttr(b *strings.Builder, a *Attr, ind string) {
	decl := a.Type.usdaName() + " " + a.Name
	if a.Uniform {
		decl = "uniform " + decl
	}

	if a.Value != nil {
		fmt.Fprintf(b, "%s%s = %s\n", ind, decl, formatValue(a.Type, a.Value))
	} else if len(a.Samples) == 0 {
		fmt.Fprintf(b, "%s%s\n", ind, decl)
	}

	if len(a.Samples) > 0 {
		fmt.Fprintf(b, "%s%s.timeSamples = {\n", ind, decl)
		for _, f := range a.sampleFrames() {
			fmt.Fprintf(b, "%s    %d: %s,\n", ind, f, formatValue(a.Type, a.Samples[f]))
		}
		fmt.Fprintf(b, "%s}\n", ind)
	}
}

func writeRel(b *strings.Builder, r *Rel, ind string) {
	switch len(r.Targets) {
	case 0:
		fmt.Fprintf(b, "%srel %s\n", ind, r.Name)
	case 1:
		fmt.Fprintf(b, "%srel %s = <%s>\n", ind, r.Name, r.Targets[0])
	default:
		paths := make([]string, len(r.Targets))
		for i, t := range r.Targets {
			paths[i] = "<" + t + ">"
		}
		fmt.Fprintf(b, "%srel %s = [%s]\n", ind, r.Name, strings.Join(paths, ", "))
	}
}

func formatValue(t ValueType, v any) string {
	switch t {
	case TypeBool:
		if b, ok := v.(bool); ok && b {
			return "1"
		}
		return "0"
	case TypeInt:
		return strconv.Itoa(toInt(v))
	case TypeFloat, TypeDouble:
		return formatFloat(toFloat(v))
	case TypeToken, TypeString:
		return strconv.Quote(fmt.Sprint(v))
	case TypeAsset:
		return "@" + fmt.Sprint(v) + "@"
	case TypeColor3f, TypeDouble3:
		return formatVec3(v)
	case TypeFloat2:
		p := v.([2]float64)
		return "(" + formatFloat(p[0]) + ", " + formatFloat(p[1]) + ")"
	case TypeInt2:
		p := v.([2]int)
		return fmt.Sprintf("(%d, %d)", p[0], p[1])
	case TypePoint3Array:
		pts := v.([]spatial.Vec3)
		parts := make([]string, len(pts))
		for i, p := range pts {
			parts[i] = formatVec3(p)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeIntArray:
		ints := v.([]int)
		parts := make([]string, len(ints))
		for i, n := range ints {
			parts[i] = strconv.Itoa(n)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeTokenArray:
		return tokenList(v.([]string))
	case TypeConnection:
		return "<" + fmt.Sprint(v) + ">"
	}
	return fmt.Sprint(v)
}

func formatVec3(v any) string {
	vec, ok := v.(spatial.Vec3)
	if !ok {
		arr := v.([3]float64)
		vec = spatial.Vec3{X: arr[0], Y: arr[1], Z: arr[2]}
	}
	return "(" + formatFloat(vec.X) + ", " + formatFloat(vec.Y) + ", " + formatFloat(vec.Z) + ")"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func tokenList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
