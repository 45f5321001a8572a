package costs

import "testing"

func TestContractOrder(t *testing.T) {
	wantFixed := []string{"mano-obra", "local", "vigilancia", "energia", "herramientas-otros"}
	wantVariable := []string{"materiales", "implementos-seguridad", "petroleo", "gasolina", "topico", "equipo-otro"}

	if len(Fixed) != len(wantFixed) {
		t.Fatalf("fixed group has %d categories, want %d", len(Fixed), len(wantFixed))
	}
	for i, c := range Fixed {
		if c.Slug() != wantFixed[i] {
			t.Errorf("fixed[%d] = %q, want %q", i, c.Slug(), wantFixed[i])
		}
		if c.Group() != GroupFixed {
			t.Errorf("%s grouped as %q, want fixed", c.Slug(), c.Group())
		}
	}
	for i, c := range Variable {
		if c.Slug() != wantVariable[i] {
			t.Errorf("variable[%d] = %q, want %q", i, c.Slug(), wantVariable[i])
		}
		if c.Group() != GroupVariable {
			t.Errorf("%s grouped as %q, want variable", c.Slug(), c.Group())
		}
	}

	// All must be the two groups concatenated, fixed first.
	if len(All) != 11 {
		t.Fatalf("len(All) = %d, want 11", len(All))
	}
	for i, c := range append(append([]Category{}, Fixed...), Variable...) {
		if All[i] != c {
			t.Errorf("All[%d] = %s, out of contract order", i, All[i].Slug())
		}
	}
}

func TestTableMapping(t *testing.T) {
	want := map[Category]string{
		ManoObra:             "tb_mano_de_obra",
		Local:                "tb_local",
		Vigilancia:           "tb_vigilancia",
		Energia:              "tb_energia",
		HerramientasOtros:    "tb_herramientos_otros",
		Materiales:           "tb_materiales",
		ImplementosSeguridad: "tb_implementos_seguridad",
		Petroleo:             "tb_petroleo",
		Gasolina:             "tb_gasolina",
		Topico:               "tb_topico",
		EquipoOtro:           "tb_equipo_otro",
	}
	for c, table := range want {
		if c.Table() != table {
			t.Errorf("%s table = %q, want %q", c.Slug(), c.Table(), table)
		}
	}
}

func TestTotalColumn(t *testing.T) {
	for _, c := range All {
		want := "total"
		if c == ManoObra {
			want = "sub_total"
		}
		if got := c.TotalColumn(); got != want {
			t.Errorf("%s total column = %q, want %q", c.Slug(), got, want)
		}
	}
}

func TestFromSlug(t *testing.T) {
	for _, c := range All {
		got, ok := FromSlug(c.Slug())
		if !ok || got != c {
			t.Errorf("FromSlug(%q) = %v, %v", c.Slug(), got, ok)
		}
	}
	if _, ok := FromSlug("no-such-category"); ok {
		t.Error("FromSlug accepted an unknown slug")
	}
}

func TestGroupTotal(t *testing.T) {
	b := Breakdown{
		Fixed:    []CategoryTotal{{ManoObra, 100.5}, {Local, 49.5}},
		Variable: []CategoryTotal{{Materiales, 10}},
	}
	if got := b.GroupTotal(GroupFixed); got != 150 {
		t.Errorf("fixed group total = %v, want 150", got)
	}
	if got := b.GroupTotal(GroupVariable); got != 10 {
		t.Errorf("variable group total = %v, want 10", got)
	}
}
