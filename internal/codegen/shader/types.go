package shader

import "github.com/nyxlang/nyxc/internal/ast"

// shaderType is the backend's own coarse type lattice — just enough to
// decide which multiplication opcode or swizzle width applies. The checker's
// types.Table only records input/output/uniform types per shader, not a
// per-expression static type, so composite expressions fall back to "" and
// are treated as scalar (documented simplification, the same shape as the
// bytecode backend's field-offset heuristic).
type shaderType string

const (
	tUnknown  shaderType = ""
	tFloat    shaderType = "Float"
	tVec2     shaderType = "Vec2"
	tVec3     shaderType = "Vec3"
	tVec4     shaderType = "Vec4"
	tMat4     shaderType = "Mat4"
	tSampler2 shaderType = "Sampler2D"
)

func isVector(t shaderType) bool {
	return t == tVec2 || t == tVec3 || t == tVec4
}

func isMatrix(t shaderType) bool {
	return t == tMat4
}

// typeName reads the bare name off a type annotation; vector/matrix/sampler
// types all arrive as NamedType or argument-less GenericType nodes.
func typeName(te ast.TypeExpr) string {
	switch n := te.(type) {
	case *ast.NamedType:
		return n.Name
	case *ast.GenericType:
		return n.Name
	default:
		return ""
	}
}

func vectorWidth(t shaderType) int {
	switch t {
	case tVec2:
		return 2
	case tVec3:
		return 3
	case tVec4:
		return 4
	default:
		return 0
	}
}

// swizzleIndex maps every GLSL-style mask letter to the vector component index
// spec.md §4.GS names: "{x,y,z,w,r,g,b,a,xy,rg,xz,rb,yz,gb,xyz,rgb}".
var swizzleIndex = map[byte]int{
	'x': 0, 'r': 0,
	'y': 1, 'g': 1,
	'z': 2, 'b': 2,
	'w': 3, 'a': 3,
}

func isSwizzle(field string) bool {
	if field == "" {
		return false
	}
	for i := 0; i < len(field); i++ {
		if _, ok := swizzleIndex[field[i]]; !ok {
			return false
		}
	}
	return true
}
