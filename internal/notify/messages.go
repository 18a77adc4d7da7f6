package notify

// Offer acceptance
const (
	TitleOfferAccepted        = "تم قبول العرض"
	MsgOfferAccepted          = "تم قبول العرض بنجاح، يمكنك الآن إكمال الدفع"
	TitleOfferAlreadyAccepted = "العرض مقبول بالفعل"
	MsgOfferAlreadyAccepted   = "يمكنك الآن إكمال الدفع"
	TitleConfirmationRequired = "تأكيد التفاوض مطلوب"
	MsgConfirmationRequired   = "يجب على كلا الطرفين تأكيد شروط التفاوض قبل قبول العرض"
	TitleTermsIncomplete      = "بيانات التفاوض غير مكتملة"
	MsgTermsIncomplete        = "يجب تحديد جميع شروط التفاوض: السعر، التاريخ، الوقت، المواد، ونطاق العمل"
	TitleAcceptFailed         = "فشل في قبول العرض"
	MsgAgreementIncomplete    = "يجب التأكد من اكتمال جميع شروط التفاوض وتأكيد الطرفين عليها"
	MsgStatusDisallowsAccept  = "حالة العرض الحالية لا تسمح بالقبول. قد يكون العرض تم قبوله بالفعل أو تم تغيير حالته"
	TitleGenericError         = "خطأ"
	MsgAcceptError            = "حدث خطأ أثناء محاولة قبول العرض"
	MsgOnlySeekerAccepts      = "فقط طالب الخدمة يمكنه قبول العرض"
)

// Payment and service lifecycle
const (
	TitlePaymentReturned   = "تم الدفع بنجاح"
	MsgPaymentReturned     = "تم إتمام عملية الدفع بنجاح"
	TitleEscrowFunded      = "تم إيداع الضمان"
	MsgEscrowFunded        = "تم إيداع الضمان بنجاح والخدمة الآن قيد التنفيذ"
	TitleServiceCompleted  = "تم اكتمال الخدمة"
	MsgServiceCompleted    = "تم اكتمال الخدمة وتحرير المبلغ لمقدم الخدمة"
	TitleCompletionOK      = "تم تأكيد اكتمال الخدمة"
	MsgCompletionOK        = "تم تحرير المبلغ لمقدم الخدمة بنجاح"
	TitleCompletionFailed  = "خطأ في تأكيد اكتمال الخدمة"
	TitlePaymentFailed     = "خطأ في عملية الدفع"
	MsgOnlySeekerPays      = "فقط طالب الخدمة يمكنه إنشاء الدفع"
	MsgPaymentFailed       = "حدث خطأ أثناء عملية الدفع"
	MsgNetworkError        = "حدث خطأ في اتصال الشبكة"
	MsgCompletionFailed    = "حدث خطأ أثناء تأكيد اكتمال الخدمة"
	MsgOnlySeekerCompletes = "فقط طالب الخدمة يمكنه تأكيد اكتمال الخدمة"
	MsgConfirmCompletion   = "هل أنت متأكد من اكتمال الخدمة؟ سيتم تحرير المبلغ لمقدم الخدمة"
)

// Cancellation
const (
	TitleCancellationRequested  = "تم طلب إلغاء الخدمة"
	MsgCancellationRequestedFmt = "تم إرسال طلب الإلغاء بنجاح. نسبة الاسترداد المتوقعة: %s%%"
	TitleCancellationFailed     = "خطأ في طلب إلغاء الخدمة"
	DefaultCancellationReason   = "طلب إلغاء بدون سبب محدد"
	MsgCancellationReasonLong   = "يجب ألا يتجاوز سبب الإلغاء 500 حرف"
	MsgCancellationFailed       = "حدث خطأ أثناء طلب إلغاء الخدمة"
)

// Negotiation sidebar
const (
	TitleTermsUpdated       = "تم تحديث شروط التفاوض"
	MsgTermsUpdated         = "تم تحديث شروط التفاوض وإعادة تعيين التأكيدات بنجاح"
	MsgTermsUpdatedNoReset  = "تم تحديث شروط التفاوض بنجاح، لكن فشلت إعادة تعيين التأكيدات"
	TitleTermsUpdateFailed  = "فشل في تحديث شروط التفاوض"
	MsgTermsUpdateFailed    = "حدث خطأ أثناء تحديث شروط التفاوض"
	TitleTermsConfirmed     = "تم تأكيد الشروط"
	MsgTermsConfirmed       = "تم تأكيد شروط التفاوض من جانبك"
	TitleConfirmFailed      = "فشل في تأكيد الشروط"
	MsgConfirmFailed        = "حدث خطأ أثناء تأكيد شروط التفاوض"
	TitleConfirmationsReset = "تم إعادة تعيين التأكيدات"
	MsgConfirmationsReset   = "تم إعادة تعيين تأكيدات التفاوض بنجاح"
	TitleResetFailed        = "فشل في إعادة تعيين التأكيدات"
	MsgNoOfferID            = "لم يتم العثور على معرّف العرض"
	MsgNoNegotiation        = "لم يتم العثور على بيانات التفاوض"
	MsgYouMustConfirm       = "يجب عليك تأكيد شروط التفاوض"
	MsgAwaitingProvider     = "بانتظار تأكيد مقدم الخدمة للشروط"
	MsgAwaitingSeeker       = "بانتظار تأكيد طالب الخدمة للشروط"
	BadgeServiceCompleted   = "تم تحرير المبلغ وإكمال الخدمة"
	BadgeServiceInProgress  = "الخدمة قيد التنفيذ"
	MsgCancellationPolicy   = "استرداد 100% عند الإلغاء قبل موعد الخدمة بـ 12 ساعة أو أكثر، و70% عند الإلغاء خلال 12 ساعة"
)

// Offer status badges
const (
	BadgeCancelled             = "تم إلغاء الخدمة"
	BadgeCancellationPending   = "تم طلب إلغاء الخدمة - بانتظار المعالجة"
	SidebarCancelled           = "لا يمكن اتخاذ أي إجراء آخر على هذه الخدمة."
	SidebarCancellationPending = "بانتظار معالجة طلب الإلغاء من الإدارة."
	MsgResetFailed             = "حدث خطأ أثناء محاولة إعادة تعيين تأكيدات التفاوض. قد تكون حالة العرض لا تسمح بإعادة التعيين."
)

// Conversation
const (
	ErrLoadConversation = "فشل تحميل المحادثة"
	ErrConnectServer    = "فشل الاتصال بالخادم"
	ErrLoadMessages     = "فشل تحميل الرسائل"
	ErrSendMessage      = "فشل إرسال الرسالة"
	EmptyChatTitle      = "لم تبدأ المحادثة بعد"
	EmptyChatBodyFmt    = "ابدأ المحادثة مع %s للتفاوض على تفاصيل الخدمة."
	ChatTitleFmt        = "محادثة مع %s"
)

// Complaints
const (
	TitleComplaintSent      = "تم إرسال البلاغ بنجاح"
	MsgComplaintSent        = "سيتم مراجعة البلاغ من قبل الإدارة قريباً"
	TitleComplaintDuplicate = "بلاغ موجود بالفعل"
	MsgComplaintDuplicate   = "لديك بلاغ قيد المعالجة لهذا الطلب بالفعل"
	ComplaintPendingMarker  = "لديك بلاغ قيد المعالجة"
	TitleComplaintFailed    = "فشل إرسال البلاغ"
	MsgComplaintFailed      = "حدث خطأ أثناء إرسال البلاغ"
)

// Advertising
const (
	AlertLoginFirst        = "يرجى تسجيل الدخول أولاً"
	AlertRequiredFields    = "يرجى ملء جميع الحقول المطلوبة"
	AlertPurchaseFailed    = "حدث خطأ أثناء إنشاء الإعلان. يرجى المحاولة مرة أخرى."
	AlertImageTooLarge     = "حجم الصورة يجب أن يكون أقل من 5 ميجابايت"
	AlertImageInvalid      = "يرجى اختيار ملف صورة صحيح"
	AlertImageUploadFailed = "فشل في رفع الصورة"
	AlertImageServerFmt    = "خطأ في الخادم: %d"
)

// Featured providers
const (
	ErrLoadFeatured = "فشل تحميل مقدمي الخدمات المميزين"
	EmptyFeatured   = "لا يوجد مقدمو خدمات مميزون حالياً"
)
