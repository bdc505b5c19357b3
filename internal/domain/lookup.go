package domain

// Cliente is a read-only reference entity.
type Cliente struct {
	IDCliente   int64
	Nome        string
	Email       *string
	Endereco    *string
	Numero      *string
	Complemento *string
	CEP         *string
	UF          *string
	Cidade      *string
	Contatos    *string
	Telefone    *string
	Celular     *string
}

// Modulo is a product module a pendência belongs to.
type Modulo struct {
	ID   int64
	Nome string
}
