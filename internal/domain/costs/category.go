package costs

// Category enumerates the eleven expense ledgers. The declaration order is
// the contract order used by every breakdown and detail section; reports must
// never reorder it.
type Category int

const (
	ManoObra Category = iota
	Local
	Vigilancia
	Energia
	HerramientasOtros
	Materiales
	ImplementosSeguridad
	Petroleo
	Gasolina
	Topico
	EquipoOtro
)

type Group string

const (
	GroupFixed    Group = "fijo"
	GroupVariable Group = "variable"
)

// Fixed and Variable partition the categories into the two reporting groups.
var (
	Fixed    = []Category{ManoObra, Local, Vigilancia, Energia, HerramientasOtros}
	Variable = []Category{Materiales, ImplementosSeguridad, Petroleo, Gasolina, Topico, EquipoOtro}
	All      = []Category{ManoObra, Local, Vigilancia, Energia, HerramientasOtros,
		Materiales, ImplementosSeguridad, Petroleo, Gasolina, Topico, EquipoOtro}
)

func (c Category) Slug() string {
	switch c {
	case ManoObra:
		return "mano-obra"
	case Local:
		return "local"
	case Vigilancia:
		return "vigilancia"
	case Energia:
		return "energia"
	case HerramientasOtros:
		return "herramientas-otros"
	case Materiales:
		return "materiales"
	case ImplementosSeguridad:
		return "implementos-seguridad"
	case Petroleo:
		return "petroleo"
	case Gasolina:
		return "gasolina"
	case Topico:
		return "topico"
	case EquipoOtro:
		return "equipo-otro"
	}
	return ""
}

func (c Category) Table() string {
	switch c {
	case ManoObra:
		return "tb_mano_de_obra"
	case Local:
		return "tb_local"
	case Vigilancia:
		return "tb_vigilancia"
	case Energia:
		return "tb_energia"
	case HerramientasOtros:
		return "tb_herramientos_otros"
	case Materiales:
		return "tb_materiales"
	case ImplementosSeguridad:
		return "tb_implementos_seguridad"
	case Petroleo:
		return "tb_petroleo"
	case Gasolina:
		return "tb_gasolina"
	case Topico:
		return "tb_topico"
	case EquipoOtro:
		return "tb_equipo_otro"
	}
	return ""
}

// TotalColumn is the monetary column summed for the category. Labor is the
// one ledger that stores its total as sub_total.
func (c Category) TotalColumn() string {
	if c == ManoObra {
		return "sub_total"
	}
	return "total"
}

func (c Category) Group() Group {
	switch c {
	case ManoObra, Local, Vigilancia, Energia, HerramientasOtros:
		return GroupFixed
	default:
		return GroupVariable
	}
}

func (c Category) Label() string {
	switch c {
	case ManoObra:
		return "Mano de Obra"
	case Local:
		return "Local"
	case Vigilancia:
		return "Vigilancia"
	case Energia:
		return "Energía"
	case HerramientasOtros:
		return "Herramientas y Otros"
	case Materiales:
		return "Materiales"
	case ImplementosSeguridad:
		return "Implementos de Seguridad"
	case Petroleo:
		return "Petróleo"
	case Gasolina:
		return "Gasolina"
	case Topico:
		return "Tópico"
	case EquipoOtro:
		return "Equipo y Otros"
	}
	return ""
}

// Shape describes which input fields a category's rows carry.
type Shape int

const (
	// ShapeLabor: trabajador, cantidad_trabajador, precio, dias_trabajados, sub_total.
	ShapeLabor Shape = iota
	// ShapeAverage: descripcion, promedio, precio_unitario, dias_trabajados, total.
	ShapeAverage
	// ShapeMaterial: descripcion, cantidad, unidad, precio_unitario, total.
	ShapeMaterial
	// ShapeQuantity: descripcion, cantidad, precio_unitario, dias_trabajados, total.
	ShapeQuantity
)

func (c Category) Shape() Shape {
	switch c {
	case ManoObra:
		return ShapeLabor
	case Local, Vigilancia, Energia, HerramientasOtros:
		return ShapeAverage
	case Materiales:
		return ShapeMaterial
	case ImplementosSeguridad, Petroleo, Gasolina, Topico, EquipoOtro:
		return ShapeQuantity
	}
	return ShapeQuantity
}

// FromSlug resolves the URL/API name of a category.
func FromSlug(s string) (Category, bool) {
	for _, c := range All {
		if c.Slug() == s {
			return c, true
		}
	}
	return 0, false
}
