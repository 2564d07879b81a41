package ast

// Declarations

// TypeReference names one of the builtin types. References are interned
// through a TypeTable so equal names share a node.
type TypeReference struct {
	nodeImpl

	Name string `json:"name"`
}

func NewTypeReference(name string) *TypeReference {
	return &TypeReference{nodeImpl: newNodeImpl(NodeTypeReference), Name: name}
}

type VariableDeclaration struct {
	nodeImpl

	Name string         `json:"name"`
	Type *TypeReference `json:"varType"`
}

func NewVariableDeclaration(name string, typ *TypeReference) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Name: name, Type: typ}
}

type Parameter struct {
	nodeImpl

	Name string         `json:"name"`
	Type *TypeReference `json:"paramType"`
}

func NewParameter(name string, typ *TypeReference) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, Type: typ}
}

type ProcedureDeclaration struct {
	nodeImpl

	Name       string         `json:"name"`
	ReturnType *TypeReference `json:"returnType"`
	Params     []*Parameter   `json:"params"`
	Body       *Block         `json:"body"`
}

func NewProcedureDeclaration(name string, returnType *TypeReference, params []*Parameter, body *Block) *ProcedureDeclaration {
	return &ProcedureDeclaration{nodeImpl: newNodeImpl(NodeProcedureDeclaration), Name: name, ReturnType: returnType, Params: params, Body: body}
}

type Block struct {
	nodeImpl

	Variables  []*VariableDeclaration  `json:"variables"`
	Procedures []*ProcedureDeclaration `json:"procedures"`
	Body       *CompoundStatement      `json:"body"`
}

func NewBlock(vars []*VariableDeclaration, procs []*ProcedureDeclaration, body *CompoundStatement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Variables: vars, Procedures: procs, Body: body}
}

type Program struct {
	nodeImpl

	Name  string `json:"name"`
	Block *Block `json:"block"`
}

func NewProgram(name string, block *Block) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Name: name, Block: block}
}

// TypeTable hands out one TypeReference per type name.
type TypeTable struct {
	refs map[string]*TypeReference
}

func NewTypeTable() *TypeTable {
	return &TypeTable{refs: make(map[string]*TypeReference)}
}

// Intern returns the shared reference for name, creating it on first use.
func (t *TypeTable) Intern(name string) *TypeReference {
	if ref, ok := t.refs[name]; ok {
		return ref
	}
	ref := NewTypeReference(name)
	t.refs[name] = ref
	return ref
}

// AllProcedures returns every procedure declared anywhere under b, outermost
// first.
func (b *Block) AllProcedures() []*ProcedureDeclaration {
	if b == nil {
		return nil
	}
	var out []*ProcedureDeclaration
	for _, proc := range b.Procedures {
		out = append(out, proc)
		out = append(out, proc.Body.AllProcedures()...)
	}
	return out
}
