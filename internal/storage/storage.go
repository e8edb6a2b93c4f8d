package storage

import "context"

// Presigner emite URLs temporárias para o storage de imagens. O upload
// em si acontece direto entre o navegador e o bucket; o backend só
// assina as operações.
type Presigner interface {
	// PresignPut devolve a chave gerada e a URL de escrita única.
	PresignPut(ctx context.Context) (key string, url string, err error)
	// PresignGet devolve URL de leitura temporária para a chave.
	PresignGet(ctx context.Context, key string) (string, error)
}
